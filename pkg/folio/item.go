package folio

import (
	"strings"
)

// noLink is the placeholder link value meaning "nothing to visit".
const noLink = "#"

// Item is a single configured piece of portfolio media.
type Item struct {
	Src         string   `json:"src"`
	Alt         string   `json:"alt,omitempty"`
	Link        string   `json:"link,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
}

// HasLink reports whether the item points somewhere worth visiting.
func (i Item) HasLink() bool {
	return i.Link != "" && i.Link != noLink
}

// IsGIF reports whether the media should be shown as a looping image.
func (i Item) IsGIF() bool {
	return strings.HasSuffix(strings.ToLower(i.Src), ".gif")
}

// IsRemote reports whether the media lives on another host.
func (i Item) IsRemote() bool {
	s := strings.ToLower(i.Src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}

// orientation returns the 3D viewer orientation, portrait unless set.
func (i Item) orientation() string {
	if i.Orientation == "landscape" {
		return "landscape"
	}
	return "portrait"
}
