package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/folio"
	"github.com/tstromberg/folio/pkg/serve"
)

var (
	configPath  = flag.String("config", "folio.yaml", "Location of optional YAML configuration")
	inDir       = flag.String("in", "", "Location of site directory containing config/ and media")
	outDir      = flag.String("out", "", "Location of output directory")
	remote      = flag.String("remote", "", "base URL to fetch category configuration from instead of --in")
	title       = flag.String("title", "", "Title of portfolio")
	description = flag.String("description", "", "description of portfolio")
	category    = flag.String("category", "", "category shown first")
	listen      = flag.Bool("listen", false, "serve content via HTTP")
	addr        = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag   = flag.Bool("watch", false, "watch for changes to --in and rebuild")
)

// settle is how long to wait for a burst of file events to finish.
var settle = 500 * time.Millisecond

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := folio.LoadConfig(*configPath)
	if err != nil {
		klog.Exitf("config: %v", err)
	}
	override(c)

	if c.InDir == "" && c.Remote == "" {
		klog.Exitf("--in or --remote is required")
	}

	if c.OutDir == "" && !*listen {
		klog.Exitf("--out is required unless --listen is set")
	}

	ctx := context.Background()
	a, err := build(ctx, c)
	if err != nil {
		klog.Exitf("build failed: %v", err)
	}

	var srv *serve.Server
	if *listen {
		srv = serve.New(c, a)
	}

	var wg sync.WaitGroup
	if *watchFlag {
		if c.InDir == "" {
			klog.Exitf("--watch requires --in")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(ctx, c, srv); err != nil {
				klog.Errorf("watch: %v", err)
			}
		}()
	}

	if srv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenAndServe(srv, *addr)
		}()
	}

	wg.Wait()
}

// override applies command-line flags on top of file configuration.
func override(c *folio.Config) {
	if *inDir != "" {
		c.InDir = *inDir
	}
	if *outDir != "" {
		c.OutDir = *outDir
	}
	if *remote != "" {
		c.Remote = *remote
	}
	if *title != "" {
		c.Collection = *title
	}
	if *description != "" {
		c.Description = *description
	}
	if *category != "" {
		c.DefaultCategory = *category
	}
}

func build(ctx context.Context, c *folio.Config) (*folio.Assembly, error) {
	a, err := folio.Collect(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	if c.OutDir == "" {
		return a, nil
	}

	if err := folio.Write(c, a); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return a, nil
}

// listenAndServe serves the portfolio via HTTP
func listenAndServe(s *serve.Server, addr string) {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	klog.Infof("Listening on %s...", addr)
	if err := hs.ListenAndServe(); err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// watch watches the site directory for changes and rebuilds
func watch(ctx context.Context, c *folio.Config, s *serve.Server) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	exclude := []string{}
	if c.OutDir != "" {
		exclude = append(exclude, c.OutDir)
	}

	dirs, err := folio.Dirs(c.InDir, exclude...)
	if err != nil {
		return fmt.Errorf("dirs: %w", err)
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if event.Has(fsnotify.Create) {
				if err := watchCreated(w, event.Name, exclude); err != nil {
					klog.Warningf("unable to watch %s: %v", event.Name, err)
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				pending = time.After(settle)
			}
		case <-pending:
			pending = nil
			a, err := build(ctx, c)
			if err != nil {
				klog.Errorf("rebuild failed: %v", err)
				continue
			}
			if s != nil {
				s.Swap(a)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

// watchCreated adds a newly created directory, and those beneath it, to w.
func watchCreated(w *fsnotify.Watcher, path string, exclude []string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return nil
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return nil
	}

	dirs, err := folio.Dirs(path, exclude...)
	if err != nil {
		return fmt.Errorf("dirs: %w", err)
	}
	for _, d := range dirs {
		klog.V(1).Infof("watching new dir %s", d)
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return nil
}
