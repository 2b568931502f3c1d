package wiki

import (
	"encoding/json"
	"fmt"
)

// Page describes a wiki page as returned by the content search API.
//
// Only ID, Title and Links.WebUI are needed to redirect; the remaining fields
// are kept so the durable cache stores what the API returned.
type Page struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	Title  string `json:"title"`
	Links  Links  `json:"_links"`
}

// Links holds the relative links of a page.
type Links struct {
	WebUI  string `json:"webui"`
	TinyUI string `json:"tinyui,omitempty"`
	Self   string `json:"self,omitempty"`
}

// WebUI returns the page's relative web UI path, or ErrMissingWebUI.
func (p Page) WebUI() (string, error) {
	if p.Links.WebUI == "" {
		return "", ErrMissingWebUI
	}
	return p.Links.WebUI, nil
}

// Encode serializes p for durable storage.
//
// encoding/json refuses NaN and ±Inf, so a non-finite value can never be
// written silently.
func Encode(p Page) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("wiki: encode page %q: %w", p.ID, err)
	}
	return data, nil
}

// Decode parses a page previously written by Encode.
func Decode(data []byte) (Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return Page{}, fmt.Errorf("wiki: decode page: %w", err)
	}
	return p, nil
}
