// Package opengraph reads og:* metadata from article pages.
package opengraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Meta is the subset of OpenGraph tags used to enrich news items.
type Meta struct {
	Title       string
	Description string
	Image       string
	SiteName    string
	URL         string
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{client: client, userAgent: "AgroSkillsBot/1.0 (+https://agroskills.com.br)"}
}

// Fetch downloads pageURL and parses its OpenGraph tags.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opengraph: %s returned %d", pageURL, resp.StatusCode)
	}
	return Parse(io.LimitReader(resp.Body, 2<<20), pageURL)
}

// Parse extracts tags from an HTML document. Relative image URLs are resolved
// against baseURL. Missing og:title falls back to <title>.
func Parse(r io.Reader, baseURL string) (*Meta, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	meta := &Meta{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		switch strings.ToLower(key) {
		case "og:title":
			meta.Title = content
		case "og:description":
			meta.Description = content
		case "description":
			if meta.Description == "" {
				meta.Description = content
			}
		case "og:image", "og:image:url":
			if meta.Image == "" {
				meta.Image = content
			}
		case "og:site_name":
			meta.SiteName = content
		case "og:url":
			meta.URL = content
		}
	})

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Image != "" {
		meta.Image = resolve(baseURL, meta.Image)
	}
	if meta.SiteName == "" {
		if u, err := url.Parse(baseURL); err == nil {
			meta.SiteName = strings.TrimPrefix(u.Hostname(), "www.")
		}
	}
	return meta, nil
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
