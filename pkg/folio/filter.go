package folio

import (
	"slices"
	"sort"

	"k8s.io/klog/v2"
)

// Filter decides which gallery units are visible. It holds the current
// category and tag selection; tags are scoped to the current category and
// cleared whenever it changes.
//
// A Filter is not safe for concurrent use.
type Filter struct {
	g        *Gallery
	category Category
	selected map[string]bool
	vocab    []string
}

// NewFilter returns a filter over g. No category is shown until
// SelectCategory is called.
func NewFilter(g *Gallery) *Filter {
	return &Filter{
		g:        g,
		category: DefaultCategory,
		selected: map[string]bool{},
	}
}

// Gallery returns the filtered gallery.
func (f *Filter) Gallery() *Gallery {
	return f.g
}

// SelectCategory shows the units of c and resets the tag selection.
func (f *Filter) SelectCategory(c Category) {
	if f.g == nil {
		return
	}

	f.category = c
	clear(f.selected)
	f.g.ClearPlaceholder()

	us := f.g.ByCategory(c)
	if len(us) == 0 {
		klog.V(1).Infof("%s is empty, showing placeholder", c)
		f.g.SetPlaceholder()
	}

	f.vocab = vocabulary(us)
}

// ToggleTag adds t to the selection, or removes it if already selected.
func (f *Filter) ToggleTag(t string) {
	if f.g == nil {
		return
	}

	if f.selected[t] {
		delete(f.selected, t)
		return
	}
	f.selected[t] = true
}

// Category is the currently shown category.
func (f *Filter) Category() Category {
	return f.category
}

// IsActive reports whether c is the current category.
func (f *Filter) IsActive(c Category) bool {
	return f.category == c
}

// IsTagActive reports whether t is selected.
func (f *Filter) IsTagActive(t string) bool {
	return f.selected[t]
}

// Selected returns the selected tags, sorted.
func (f *Filter) Selected() []string {
	ts := make([]string, 0, len(f.selected))
	for t := range f.selected {
		ts = append(ts, t)
	}
	sort.Strings(ts)
	return ts
}

// Vocabulary returns the sorted, distinct tags of the current category.
func (f *Filter) Vocabulary() []string {
	return slices.Clone(f.vocab)
}

// IsVisible reports whether u should be displayed.
func (f *Filter) IsVisible(u *Unit) bool {
	if u.Placeholder {
		return f.g != nil && f.g.Placeholder() == u
	}
	if u.Category != f.category {
		return false
	}
	if len(f.selected) == 0 {
		return true
	}
	return u.Matches(f.selected)
}

// Visible returns the displayed units in gallery order, including the
// placeholder.
func (f *Filter) Visible() []*Unit {
	if f.g == nil {
		return nil
	}

	vs := []*Unit{}
	for _, u := range f.g.Children() {
		if f.IsVisible(u) {
			vs = append(vs, u)
		}
	}
	return vs
}

// Toggled returns the selection that would result from toggling t. It is
// used to build tag links.
func (f *Filter) Toggled(t string) []string {
	next := []string{}
	for _, s := range f.Selected() {
		if s != t {
			next = append(next, s)
		}
	}
	if !f.selected[t] {
		next = append(next, t)
		sort.Strings(next)
	}
	return next
}

func vocabulary(us []*Unit) []string {
	ts := []string{}
	for _, u := range us {
		ts = append(ts, u.Tags...)
	}
	sort.Strings(ts)
	return slices.Compact(ts)
}
