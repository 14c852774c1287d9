package folio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"slices"
)

//go:embed assets/unit.tmpl
var unitTmpl string

var unitTemplates = template.Must(template.New("unit").Parse(unitTmpl))

// Unit is a rendered gallery entry.
type Unit struct {
	ID       string
	Category Category
	Tags     []string
	Item     Item

	// AspectRatio is width/height once probed, zero until then.
	AspectRatio float64
	IconTone    string

	ControlsWired bool
	Placeholder   bool
}

// TagsJSON serializes the tag set for the data-tags attribute.
func (u *Unit) TagsJSON() string {
	bs, err := json.Marshal(u.Tags)
	if err != nil {
		return "[]"
	}
	return string(bs)
}

// AspectStyle is the CSS value of the aspect-ratio hint, if known.
func (u *Unit) AspectStyle() string {
	if u.AspectRatio <= 0 {
		return ""
	}
	return fmt.Sprintf("%.4f", u.AspectRatio)
}

// Orientation is the 3D viewer orientation.
func (u *Unit) Orientation() string {
	return u.Item.orientation()
}

// HasTag reports whether the unit is labelled t.
func (u *Unit) HasTag(t string) bool {
	return slices.Contains(u.Tags, t)
}

// Matches reports whether any of the unit's tags are selected.
func (u *Unit) Matches(selected map[string]bool) bool {
	for _, t := range u.Tags {
		if selected[t] {
			return true
		}
	}
	return false
}

// layout picks the template used for the unit.
func (u *Unit) layout() string {
	if u.Placeholder {
		return "placeholder"
	}
	switch u.Category.Media() {
	case MediaVideo:
		if u.Item.IsGIF() {
			return "gif"
		}
		return "video"
	case Media3D:
		return "3d"
	default:
		return "image"
	}
}

type unitView struct {
	*Unit
	Hidden bool
}

// HTML renders the unit's subtree.
func (u *Unit) HTML(visible bool) (template.HTML, error) {
	var b bytes.Buffer
	if err := unitTemplates.ExecuteTemplate(&b, u.layout(), unitView{Unit: u, Hidden: !visible}); err != nil {
		return "", fmt.Errorf("execute %s: %w", u.layout(), err)
	}
	return template.HTML(b.String()), nil
}

// Render builds the unit for an item of category c.
func Render(i Item, c Category) *Unit {
	u := &Unit{
		Category: c,
		Item:     i,
	}
	if len(i.Tags) > 0 {
		u.Tags = slices.Clone(i.Tags)
	}
	return u
}

// NewPlaceholder returns the "Coming Soon" unit shown for empty categories.
func NewPlaceholder() *Unit {
	return &Unit{ID: "coming-soon", Placeholder: true}
}
