// autotag adds suggested tags to untagged portfolio images using Gemini.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"google.golang.org/genai"
	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/folio"
)

var (
	dryRun     = flag.Bool("n", false, "dry-run mode, don't tag things")
	overwrite  = flag.Bool("o", false, "overwrite existing tags")
	inDir      = flag.String("in", "", "Location of site directory containing config/ and media")
	configPath = flag.String("config", "folio.yaml", "Location of optional YAML configuration")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := folio.LoadConfig(*configPath)
	if err != nil {
		klog.Fatalf("config: %v", err)
	}
	if *inDir != "" {
		c.InDir = *inDir
	}
	if c.InDir == "" {
		klog.Fatalf("Usage: %s -in <site_dir> [category ...]", os.Args[0])
	}

	cats := folio.Categories
	if flag.NArg() > 0 {
		cats = nil
		for _, a := range flag.Args() {
			cat, err := folio.ParseCategory(a)
			if err != nil {
				klog.Fatalf("%v", err)
			}
			cats = append(cats, cat)
		}
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_AI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		klog.Fatalf("genai: %v", err)
	}

	p := folio.Prober{Root: c.InDir}
	total := 0
	for _, cat := range cats {
		if cat.Media() != folio.MediaImage {
			klog.Infof("skipping %s: not an image category", cat)
			continue
		}

		path := filepath.Join(c.InDir, filepath.FromSlash(cat.ConfigPath()))
		bs, err := os.ReadFile(path)
		if err != nil {
			klog.Warningf("skipping %s: %v", cat, err)
			continue
		}

		is, err := folio.ParseItems(bs)
		if err != nil {
			klog.Errorf("parse %s: %v", path, err)
			continue
		}

		changed := 0
		for x, i := range is {
			if !*overwrite && len(i.Tags) > 0 {
				klog.Infof("%s has tags: %v", i.Src, i.Tags)
				continue
			}

			tags, err := folio.AutoTag(ctx, client, c.AutoTagModel, p, i)
			if err != nil {
				klog.Errorf("autotag %s: %v", i.Src, err)
				continue
			}

			klog.Infof("adding tags to %s: %v", i.Src, tags)
			is[x].Tags = tags
			changed++
			total++
		}

		if changed == 0 || *dryRun {
			continue
		}

		out, err := folio.EncodeItems(folio.ItemsKey(bs), is)
		if err != nil {
			klog.Fatalf("encode %s: %v", cat, err)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			klog.Fatalf("write %s: %v", path, err)
		}
	}

	klog.Infof("autotag completed. Tagged %d items across %d categories", total, len(cats))
}
