// Package serve provides HTTP handlers for browsing a portfolio.
package serve

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/folio"
)

var (
	pageTTL   = 10 * time.Minute
	cleanupIn = 20 * time.Minute
)

// Server serves portfolio pages filtered by category and tag.
type Server struct {
	c     *folio.Config
	snap  atomic.Pointer[snapshot]
	gen   atomic.Uint64
	pages *gocache.Cache
}

// snapshot is an assembly and the generation it was installed as.
type snapshot struct {
	a   *folio.Assembly
	gen uint64
}

// New creates a new server.
func New(c *folio.Config, a *folio.Assembly) *Server {
	s := &Server{
		c:     c,
		pages: gocache.New(pageTTL, cleanupIn),
	}
	s.snap.Store(&snapshot{a: a})
	return s
}

// Swap installs a rebuilt assembly.
func (s *Server) Swap(a *folio.Assembly) {
	s.snap.Store(&snapshot{a: a, gen: s.gen.Add(1)})
	s.pages.Flush()
	klog.Infof("serving %d units", a.Gallery.Len())
}

// Handler returns the router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	cats := make([]string, 0, len(folio.Categories))
	for _, c := range folio.Categories {
		cats = append(cats, string(c))
	}
	pattern := "/{category:(?:" + strings.Join(cats, "|") + ")}"

	r.Get("/", s.PageHandler())
	r.Get(pattern, s.PageHandler())
	r.Get(pattern+"/", s.PageHandler())
	r.Get("/api/units", s.UnitsHandler())
	r.Get("/health", HealthHandler().ServeHTTP)

	if s.c.InDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.c.InDir)))
	}
	return r
}

// filter replays the request's category and tag parameters as events on
// the current snapshot.
func (s *Server) filter(r *http.Request) (*folio.Filter, uint64) {
	sn := s.snap.Load()

	name := chi.URLParam(r, "category")
	if name == "" {
		name = r.URL.Query().Get("category")
	}

	cat, err := folio.ParseCategory(name)
	if err != nil {
		cat = s.c.Default()
	}

	f := folio.NewFilter(sn.a.Gallery.Clone())
	f.SelectCategory(cat)
	for _, t := range r.URL.Query()["tag"] {
		f.ToggleTag(t)
	}
	return f, sn.gen
}

// cacheKey includes the generation so pages rendered from a replaced
// assembly are never served after a swap.
func cacheKey(gen uint64, f *folio.Filter) string {
	return fmt.Sprintf("%d/%s?%s", gen, f.Category(), strings.Join(f.Selected(), ","))
}

// PageHandler renders the portfolio page.
func (s *Server) PageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, gen := s.filter(r)
		key := cacheKey(gen, f)

		if bs, ok := s.pages.Get(key); ok {
			klog.V(2).Infof("cache hit: %s", key)
			writePage(w, bs.([]byte))
			return
		}

		var b bytes.Buffer
		if err := folio.RenderPage(&b, s.c, f, "/"); err != nil {
			klog.Errorf("render %s: %v", key, err)
			httpError(w, http.StatusInternalServerError, "unable to render page")
			return
		}

		s.pages.Set(key, b.Bytes(), gocache.DefaultExpiration)
		writePage(w, b.Bytes())
	}
}

type unitJSON struct {
	ID          string   `json:"id"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	Src         string   `json:"src,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// UnitsHandler lists the visible units for the requested filter state.
func (s *Server) UnitsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, _ := s.filter(r)

		resp := struct {
			Category   string     `json:"category"`
			Selected   []string   `json:"selected"`
			Vocabulary []string   `json:"vocabulary"`
			Units      []unitJSON `json:"units"`
		}{
			Category:   string(f.Category()),
			Selected:   f.Selected(),
			Vocabulary: f.Vocabulary(),
			Units:      []unitJSON{},
		}

		for _, u := range f.Visible() {
			tags := u.Tags
			if tags == nil {
				tags = []string{}
			}
			resp.Units = append(resp.Units, unitJSON{
				ID:          u.ID,
				Category:    string(u.Category),
				Tags:        tags,
				Src:         u.Item.Src,
				Placeholder: u.Placeholder,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			klog.Errorf("encode units: %v", err)
		}
	}
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
}

func writePage(w http.ResponseWriter, bs []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(bs)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
