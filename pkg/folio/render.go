package folio

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"k8s.io/klog/v2"
)

//go:embed assets/page.tmpl
var pageTmpl string

//go:embed assets/style.css
var styleText string

//go:embed assets/folio.js
var scriptText string

var pageTemplate = template.Must(template.New("page").Funcs(tmplFunctions()).Parse(pageTmpl))

// Write writes the static site for an assembly.
func Write(c *Config, a *Assembly) error {
	if c.OutDir == "" {
		return fmt.Errorf("no output directory")
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if c.InDir != "" {
		if err := copyAssets(c.InDir, c.OutDir); err != nil {
			return fmt.Errorf("copyAssets: %w", err)
		}
	}

	if err := writeIndex(c, a); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	if err := writeCategories(c, a); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}

	return nil
}

func writeIndex(c *Config, a *Assembly) error {
	klog.V(1).Infof("writing index with %d units ...", a.Gallery.Len())
	bs, err := renderPage(c, a.Filter, "./")
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	p := filepath.Join(c.OutDir, "index.html")
	klog.V(1).Infof("Writing index to %s", p)
	return os.WriteFile(p, bs, 0o644)
}

func writeCategories(c *Config, a *Assembly) error {
	klog.Infof("Writing out %d category pages ...", len(Categories))
	for _, cat := range Categories {
		f := NewFilter(a.Gallery.Clone())
		f.SelectCategory(cat)

		bs, err := renderPage(c, f, "../")
		if err != nil {
			return fmt.Errorf("render %s: %w", cat, err)
		}

		p := filepath.Join(c.OutDir, string(cat), "index.html")
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}

		klog.V(1).Infof("Writing %s page to %s", cat, p)
		if err := os.WriteFile(p, bs, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	}
	return nil
}

// RenderPage writes the page for the filter's current state. base is the
// URL of the site root relative to the page.
func RenderPage(w io.Writer, c *Config, f *Filter, base string) error {
	data := struct {
		Base        string
		Collection  string
		Description string
		Default     Category
		Categories  []Category
		Filter      *Filter
		Year        int
		Style       template.CSS
		Script      template.JS
	}{
		Base:        base,
		Collection:  c.Collection,
		Description: c.Description,
		Default:     c.Default(),
		Categories:  Categories,
		Filter:      f,
		Year:        time.Now().Year(),
		Style:       template.CSS(styleText),
		Script:      template.JS(scriptText),
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

func renderPage(c *Config, f *Filter, base string) ([]byte, error) {
	var tpl bytes.Buffer
	if err := RenderPage(&tpl, c, f, base); err != nil {
		return nil, err
	}
	return tpl.Bytes(), nil
}

// CategoryHref is the root-relative link to a category page.
func CategoryHref(c Category) string {
	return string(c) + "/"
}

// TagHref is the root-relative link that toggles t within the current
// category.
func TagHref(f *Filter, t string) string {
	ts := f.Toggled(t)
	if len(ts) == 0 {
		return CategoryHref(f.Category())
	}
	return CategoryHref(f.Category()) + "?" + url.Values{"tag": ts}.Encode()
}

// tmplFunctions are functions available to our templates.
func tmplFunctions() template.FuncMap {
	return template.FuncMap{
		"Unit": func(f *Filter, u *Unit) (template.HTML, error) {
			return u.HTML(f.IsVisible(u))
		},
		"CategoryHref": CategoryHref,
		"TagHref":      TagHref,
	}
}
