package folio

import (
	"context"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func visibleSrcs(f *Filter) []string {
	ss := []string{}
	for _, u := range f.Visible() {
		if !u.Placeholder {
			ss = append(ss, u.Item.Src)
		}
	}
	return ss
}

func TestFilter_Scenario(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, Images, `{"items":[{"src":"a.png","tags":["ui"]}]}`)

	g := NewGallery(nil)
	LoadCategoryInto(context.Background(), g, NewRegistry(DirSource{Root: root}), Images)

	f := NewFilter(g)
	f.SelectCategory(Images)
	require.Equal(t, []string{"a.png"}, visibleSrcs(f))

	f.ToggleTag("ui")
	require.Equal(t, []string{"a.png"}, visibleSrcs(f))

	f.ToggleTag("xyz")
	f.ToggleTag("ui")
	require.Empty(t, visibleSrcs(f))
	require.Equal(t, []string{"xyz"}, f.Selected())
}

func TestFilter_SelectCategory(t *testing.T) {
	g := NewGallery(nil)
	ctx := context.Background()
	g.Replace(ctx, Result{Category: Images, Items: []Item{{Src: "a", Tags: []string{"b", "a"}}, {Src: "b", Tags: []string{"a", "c"}}}})
	g.Replace(ctx, Result{Category: Web, Items: []Item{{Src: "w", Tags: []string{"zz"}}}})

	f := NewFilter(g)
	f.SelectCategory(Images)
	require.True(t, f.IsActive(Images))
	require.False(t, f.IsActive(Web))
	require.Equal(t, []string{"a", "b", "c"}, f.Vocabulary())
	require.Nil(t, g.Placeholder())

	f.ToggleTag("c")
	require.Equal(t, []string{"b"}, visibleSrcs(f))

	f.SelectCategory(Web)
	require.Empty(t, f.Selected())
	require.Equal(t, []string{"zz"}, f.Vocabulary())
	require.Equal(t, []string{"w"}, visibleSrcs(f))
}

func TestFilter_EmptyCategoryShowsOnePlaceholder(t *testing.T) {
	g := NewGallery(nil)
	g.Replace(context.Background(), Result{Category: Images, Items: []Item{{Src: "a"}}})
	f := NewFilter(g)

	f.SelectCategory(Models)
	f.SelectCategory(Models)

	vs := f.Visible()
	require.Len(t, vs, 1)
	require.True(t, vs[0].Placeholder)
	require.Empty(t, f.Vocabulary())

	placeholders := 0
	for _, u := range g.Children() {
		if u.Placeholder {
			placeholders++
		}
	}
	require.Equal(t, 1, placeholders)

	f.SelectCategory(Images)
	require.Nil(t, g.Placeholder())
	require.Equal(t, []string{"a"}, visibleSrcs(f))
}

func TestFilter_NilGallery(t *testing.T) {
	f := NewFilter(nil)
	f.SelectCategory(Web)
	f.ToggleTag("x")
	require.Empty(t, f.Visible())
	require.Empty(t, f.Selected())
}

func TestFilter_Toggled(t *testing.T) {
	f := NewFilter(NewGallery(nil))
	f.SelectCategory(Images)
	f.ToggleTag("b")

	require.Equal(t, []string{"a", "b"}, f.Toggled("a"))
	require.Equal(t, []string{}, f.Toggled("b"))
}

var tagPool = []string{"ui", "web", "print", "3d", "motion"}

func genGallery(t *rapid.T) *Gallery {
	g := NewGallery(nil)
	for _, c := range Categories {
		n := rapid.IntRange(0, 6).Draw(t, "n_"+string(c))
		is := []Item{}
		for x := 0; x < n; x++ {
			tags := rapid.SliceOfN(rapid.SampledFrom(tagPool), 0, 3).Draw(t, "tags")
			is = append(is, Item{Src: string(c) + "/" + string(rune('a'+x)), Tags: tags})
		}
		g.Replace(context.Background(), Result{Category: c, Items: is})
	}
	return g
}

func TestFilter_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genGallery(t)
		f := NewFilter(g)
		f.SelectCategory(DefaultCategory)

		events := rapid.SliceOfN(rapid.IntRange(0, len(Categories)+len(tagPool)-1), 1, 30).Draw(t, "events")
		for _, e := range events {
			if e < len(Categories) {
				f.SelectCategory(Categories[e])
				if len(f.Selected()) != 0 {
					t.Fatalf("selection not cleared after SelectCategory")
				}
			} else {
				f.ToggleTag(tagPool[e-len(Categories)])
			}

			selected := f.Selected()
			want := []*Unit{}
			for _, u := range g.ByCategory(f.Category()) {
				if len(selected) == 0 || slices.ContainsFunc(u.Tags, func(s string) bool { return slices.Contains(selected, s) }) {
					want = append(want, u)
				}
			}

			got := []*Unit{}
			placeholders := 0
			for _, u := range f.Visible() {
				if u.Placeholder {
					placeholders++
					continue
				}
				got = append(got, u)
			}
			if !slices.Equal(want, got) {
				t.Fatalf("visible = %v, want %v", srcs(got), srcs(want))
			}

			inCategory := g.ByCategory(f.Category())
			if len(inCategory) == 0 && placeholders != 1 {
				t.Fatalf("empty category shows %d placeholders", placeholders)
			}
			if len(inCategory) > 0 && placeholders != 0 {
				t.Fatalf("non-empty category shows a placeholder")
			}

			vocab := []string{}
			for _, u := range inCategory {
				vocab = append(vocab, u.Tags...)
			}
			sort.Strings(vocab)
			vocab = slices.Compact(vocab)
			if !slices.Equal(vocab, f.Vocabulary()) {
				t.Fatalf("vocabulary = %v, want %v", f.Vocabulary(), vocab)
			}
		}
	})
}

func TestFilter_ReloadNeverDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := NewGallery(nil)
		n := rapid.IntRange(1, 10).Draw(t, "n")
		reloads := rapid.IntRange(1, 5).Draw(t, "reloads")
		is := make([]Item, n)
		for x := range is {
			is[x] = Item{Src: string(rune('a' + x))}
		}
		for x := 0; x < reloads; x++ {
			g.Replace(context.Background(), Result{Category: Personal, Items: is})
		}
		if g.Len() != n {
			t.Fatalf("gallery has %d units after %d reloads of %d items", g.Len(), reloads, n)
		}
	})
}
