package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// maxTags caps how many suggested tags are kept per item.
const maxTags = 5

var tagPrompt = "generate 1-5 comma-separated one-word tags for this portfolio piece. " +
	"Tags should describe the medium, subject or technique, for example: ui, branding, " +
	"illustration, typography, motion, product, portrait, landscape, logo, web, mobile, " +
	"character, environment, render. Use lowercase, singular, present-tense words that a " +
	"visitor would filter a design portfolio by. Do not combine multiple words."

// AutoTag suggests tags for an image item using a Gemini model.
func AutoTag(ctx context.Context, client *genai.Client, model string, p Prober, i Item) ([]string, error) {
	path, err := p.path(i.Src)
	if err != nil {
		return nil, err
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = "image/jpeg"
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(bs, mt),
		genai.NewPartFromText(tagPrompt),
	}
	resp, err := client.Models.GenerateContent(ctx, model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return ParseTags(resp.Text()), nil
}

// ParseTags normalizes a comma-separated tag suggestion.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.Join(strings.Fields(t), ""))
		t = strings.Trim(t, "#.\"'`")
		if t == "" || slices.Contains(tags, t) {
			continue
		}
		tags = append(tags, t)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// EncodeItems writes items back into a configuration document wrapped in key.
func EncodeItems(key string, is []Item) ([]byte, error) {
	if key == "" {
		key = "items"
	}
	bs, err := json.MarshalIndent(map[string][]Item{key: is}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(bs, '\n'), nil
}
