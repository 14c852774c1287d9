package folio

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

// an Assembly is an assembled portfolio.
type Assembly struct {
	Gallery *Gallery
	Results []Result
	Filter  *Filter
}

// Empty returns the categories that have nothing to show.
func (a *Assembly) Empty() []Category {
	cs := []Category{}
	for _, c := range Categories {
		if len(a.Gallery.ByCategory(c)) == 0 {
			cs = append(cs, c)
		}
	}
	return cs
}

// Collect loads every category and assembles the gallery. All loads settle
// before the default category is selected.
func Collect(ctx context.Context, c *Config) (*Assembly, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	from := c.InDir
	if c.Remote != "" {
		from = c.Remote
	}
	klog.Infof("collect: %s", from)

	var p *Prober
	if c.InDir != "" {
		p = &Prober{Root: c.InDir}
	}

	rs := NewRegistry(c.Source()).LoadAll(ctx, Categories)

	g := NewGallery(p)
	g.SetShowMore(true)
	g.SetShowMoreThreshold(c.ShowMoreThreshold)

	for _, r := range rs {
		if r.Err != nil {
			klog.Warningf("%s will be empty: %v", r.Category, r.Err)
		}
		g.Replace(ctx, r)
	}

	f := NewFilter(g)
	f.SelectCategory(c.Default())

	a := &Assembly{Gallery: g, Results: rs, Filter: f}
	klog.Infof("assembled %d units, empty categories: %v", g.Len(), a.Empty())
	return a, nil
}
