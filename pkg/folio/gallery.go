package folio

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ShowMoreThreshold is the number of units above which the show more anchor
// is displayed.
var ShowMoreThreshold = 15

// probeWorkers bounds concurrent media probes.
var probeWorkers = 4

// Gallery is the ordered set of rendered units, bucketed by category.
//
// Its children are laid out as: optional placeholder, units in insertion
// order, optional trailing show more anchor.
type Gallery struct {
	units       []*Unit
	buckets     map[Category][]*Unit
	placeholder *Unit
	showMore    bool
	moreAfter   int
	prober      *Prober
}

// NewGallery returns an empty gallery. A nil prober disables media probing.
func NewGallery(p *Prober) *Gallery {
	return &Gallery{
		buckets:   map[Category][]*Unit{},
		moreAfter: ShowMoreThreshold,
		prober:    p,
	}
}

// SetShowMore adds or removes the trailing show more anchor.
func (g *Gallery) SetShowMore(on bool) {
	g.showMore = on
}

// SetShowMoreThreshold sets how many units are shown before the anchor.
func (g *Gallery) SetShowMoreThreshold(n int) {
	g.moreAfter = n
}

// HasShowMore reports whether the show more anchor is present.
func (g *Gallery) HasShowMore() bool {
	return g.showMore
}

// ShowMoreVisible reports whether the anchor should be displayed.
func (g *Gallery) ShowMoreVisible() bool {
	return g.showMore && len(g.units) > g.moreAfter
}

// Units returns every content unit in insertion order.
func (g *Gallery) Units() []*Unit {
	return slices.Clone(g.units)
}

// Children returns the placeholder, if any, followed by the content units.
func (g *Gallery) Children() []*Unit {
	cs := make([]*Unit, 0, len(g.units)+1)
	if g.placeholder != nil {
		cs = append(cs, g.placeholder)
	}
	return append(cs, g.units...)
}

// ByCategory returns the units of c in insertion order.
func (g *Gallery) ByCategory(c Category) []*Unit {
	return slices.Clone(g.buckets[c])
}

// Len is the number of content units.
func (g *Gallery) Len() int {
	return len(g.units)
}

// Placeholder returns the current empty-state unit, or nil.
func (g *Gallery) Placeholder() *Unit {
	return g.placeholder
}

// SetPlaceholder replaces any existing placeholder with a fresh one.
func (g *Gallery) SetPlaceholder() *Unit {
	g.ClearPlaceholder()
	g.placeholder = NewPlaceholder()
	return g.placeholder
}

// ClearPlaceholder removes the placeholder, if any.
func (g *Gallery) ClearPlaceholder() {
	g.placeholder = nil
}

// Remove drops every unit of c and returns how many were removed.
func (g *Gallery) Remove(c Category) int {
	n := len(g.buckets[c])
	if n == 0 {
		return 0
	}
	g.units = slices.DeleteFunc(g.units, func(u *Unit) bool {
		return u.Category == c
	})
	delete(g.buckets, c)
	return n
}

// Insert adds units before the show more anchor.
func (g *Gallery) Insert(us ...*Unit) {
	for _, u := range us {
		g.units = append(g.units, u)
		g.buckets[u.Category] = append(g.buckets[u.Category], u)
	}
}

// Clone returns a gallery sharing units but with its own layout, so that a
// filter may mutate it without affecting other readers.
func (g *Gallery) Clone() *Gallery {
	ng := &Gallery{
		units:       slices.Clone(g.units),
		buckets:     make(map[Category][]*Unit, len(g.buckets)),
		placeholder: g.placeholder,
		showMore:    g.showMore,
		moreAfter:   g.moreAfter,
		prober:      g.prober,
	}
	for c, us := range g.buckets {
		ng.buckets[c] = slices.Clone(us)
	}
	return ng
}

// LoadCategoryInto replaces the units of c with freshly loaded ones. A
// category that loads zero items leaves the gallery untouched.
func LoadCategoryInto(ctx context.Context, g *Gallery, r *Registry, c Category) int {
	if g == nil || r == nil {
		return 0
	}
	return g.Replace(ctx, r.Load(ctx, c))
}

// Replace installs the items of a load result, returning the number of units
// inserted.
func (g *Gallery) Replace(ctx context.Context, res Result) int {
	is := res.ItemsOrEmpty()
	if len(is) == 0 {
		klog.V(1).Infof("no %s items, leaving gallery as is", res.Category)
		return 0
	}

	if n := g.Remove(res.Category); n > 0 {
		klog.V(1).Infof("removed %d existing %s units", n, res.Category)
	}

	us := make([]*Unit, 0, len(is))
	for x, i := range is {
		u := Render(i, res.Category)
		u.ID = fmt.Sprintf("%s-%d", res.Category, x)
		us = append(us, u)
	}
	g.Insert(us...)

	g.initialize(ctx, us)
	klog.Infof("inserted %d %s units", len(us), res.Category)
	return len(us)
}

// initialize runs the post-insertion setup that freshly inserted units need.
func (g *Gallery) initialize(ctx context.Context, us []*Unit) {
	var eg errgroup.Group
	eg.SetLimit(probeWorkers)

	for _, u := range us {
		switch u.Category.Media() {
		case MediaVideo:
			if !u.Item.IsGIF() {
				u.ControlsWired = true
				continue
			}
		case Media3D:
			continue
		}

		if g.prober == nil {
			continue
		}

		// Remote pixels can't be read; fall back like a failed analysis.
		if u.Item.IsRemote() {
			u.IconTone = IconLight
			continue
		}

		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			g.probe(u)
			return nil
		})
	}
	_ = eg.Wait()
}

func (g *Gallery) probe(u *Unit) {
	u.IconTone = g.prober.Tone(u.Item.Src)
	if u.Category.Media() != MediaImage {
		return
	}

	w, h, err := g.prober.Dimensions(u.Item.Src)
	if err != nil || h == 0 {
		klog.V(1).Infof("keeping default aspect ratio for %s: %v", u.Item.Src, err)
		return
	}
	u.AspectRatio = float64(w) / float64(h)
}
