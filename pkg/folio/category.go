// Package folio builds a category-filtered media portfolio.
package folio

import (
	"errors"
	"fmt"
)

// Category is a fixed partition of the gallery.
type Category string

const (
	Images   Category = "images"
	Videos   Category = "videos"
	Models   Category = "3d"
	Personal Category = "personal"
	Web      Category = "web"
)

// DefaultCategory is shown when nothing else was asked for.
var DefaultCategory = Images

// Categories lists every known category in display order.
var Categories = []Category{Images, Videos, Models, Personal, Web}

// MediaType selects the rendering strategy of a category.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	Media3D    MediaType = "3d"
)

var mediaTypes = map[Category]MediaType{
	Images:   MediaImage,
	Videos:   MediaVideo,
	Models:   Media3D,
	Personal: MediaImage,
	Web:      MediaImage,
}

var labels = map[Category]string{
	Images:   "Images",
	Videos:   "Videos",
	Models:   "3D",
	Personal: "Personal",
	Web:      "Web",
}

// ErrUnknownCategory is returned for names outside of Categories.
var ErrUnknownCategory = errors.New("unknown category")

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := mediaTypes[c]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownCategory)
	}
	return c, nil
}

// Media returns the rendering strategy for c.
func (c Category) Media() MediaType {
	return mediaTypes[c]
}

// Class is the CSS class carried by every unit of c.
func (c Category) Class() string {
	return string(c) + "-item"
}

// Label is the button text for c.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// ConfigPath is the conventional location of the category's item list.
func (c Category) ConfigPath() string {
	return "config/" + string(c) + ".json"
}
