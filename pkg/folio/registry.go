package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Source fetches the raw configuration document of a category.
type Source interface {
	Fetch(ctx context.Context, c Category) ([]byte, error)
}

// DirSource reads configuration from a site directory on disk.
type DirSource struct {
	Root string
}

// Fetch reads <root>/config/<category>.json.
func (s DirSource) Fetch(_ context.Context, c Category) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(c.ConfigPath())))
}

// HTTPSource fetches configuration from a published site.
type HTTPSource struct {
	Base   string
	client *retryablehttp.Client
}

// NewHTTPSource returns a source rooted at base. Requests are not retried
// unless retryMax is positive.
func NewHTTPSource(base string, retryMax int) *HTTPSource {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.Logger = nil
	return &HTTPSource{Base: strings.TrimSuffix(base, "/"), client: rc}
}

// Fetch GETs <base>/config/<category>.json.
func (s *HTTPSource) Fetch(ctx context.Context, c Category) ([]byte, error) {
	u := s.Base + "/" + c.ConfigPath()
	req, err := retryablehttp.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: status %d", u, resp.StatusCode)
	}

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return bs, nil
}

// Resolve makes a media reference relative to the published site absolute,
// since its files are not served locally.
func (s *HTTPSource) Resolve(ref string) string {
	if ref == "" || ref == "#" {
		return ref
	}
	base, err := url.Parse(s.Base + "/")
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		klog.Warningf("unable to resolve %q against %s: %v", ref, s.Base, err)
		return ref
	}
	return base.ResolveReference(u).String()
}

// resolver rewrites item references loaded from a source.
type resolver interface {
	Resolve(ref string) string
}

// LoadError describes why a category could not be loaded.
type LoadError struct {
	Category Category
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Category, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is the outcome of loading one category.
type Result struct {
	Category Category
	Items    []Item
	Err      *LoadError
}

// ItemsOrEmpty reduces a failed load to zero items.
func (r Result) ItemsOrEmpty() []Item {
	if r.Err != nil {
		return nil
	}
	return r.Items
}

// Registry loads item records for categories.
type Registry struct {
	src Source
}

// NewRegistry returns a registry reading from src.
func NewRegistry(src Source) *Registry {
	return &Registry{src: src}
}

// Load fetches and parses one category. Failures are logged and returned in
// the result rather than as an error.
func (r *Registry) Load(ctx context.Context, c Category) Result {
	res := Result{Category: c}

	bs, err := r.src.Fetch(ctx, c)
	if err != nil {
		res.Err = &LoadError{Category: c, Err: fmt.Errorf("fetch: %w", err)}
		klog.Errorf("failed to load %s config: %v", c, res.Err)
		return res
	}

	is, err := ParseItems(bs)
	if err != nil {
		res.Err = &LoadError{Category: c, Err: fmt.Errorf("parse: %w", err)}
		klog.Errorf("failed to load %s config: %v", c, res.Err)
		return res
	}

	if rv, ok := r.src.(resolver); ok {
		for x := range is {
			is[x].Src = rv.Resolve(is[x].Src)
			is[x].Link = rv.Resolve(is[x].Link)
		}
	}

	klog.V(1).Infof("loaded %d %s items", len(is), c)
	res.Items = is
	return res
}

// LoadAll loads every category concurrently and returns once all of them
// have settled, in the order given.
func (r *Registry) LoadAll(ctx context.Context, cs []Category) []Result {
	rs := make([]Result, len(cs))
	var g errgroup.Group
	for x, c := range cs {
		g.Go(func() error {
			rs[x] = r.Load(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return rs
}

// ParseItems decodes a configuration document. The first property of the
// top-level object holds the item array; its key is ignored.
func ParseItems(bs []byte) ([]Item, error) {
	if !gjson.ValidBytes(bs) {
		return nil, fmt.Errorf("invalid json")
	}

	doc := gjson.ParseBytes(bs)
	if !doc.IsObject() {
		return nil, fmt.Errorf("expected object, got %s", doc.Type)
	}

	var first gjson.Result
	found := false
	doc.ForEach(func(k, v gjson.Result) bool {
		klog.V(2).Infof("using item key %q", k.String())
		first = v
		found = true
		return false
	})

	if !found || first.Type == gjson.Null {
		return nil, nil
	}

	if !first.IsArray() {
		return nil, fmt.Errorf("expected item array, got %s", first.Type)
	}

	var raw []Item
	if err := json.Unmarshal([]byte(first.Raw), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	is := make([]Item, 0, len(raw))
	for x, i := range raw {
		if i.Src == "" {
			klog.Warningf("skipping item %d: no src", x)
			continue
		}
		is = append(is, i)
	}
	return is, nil
}

// ItemsKey returns the name of the property holding the item array.
func ItemsKey(bs []byte) string {
	key := ""
	gjson.ParseBytes(bs).ForEach(func(k, _ gjson.Result) bool {
		key = k.String()
		return false
	})
	return key
}
