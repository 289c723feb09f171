// Package javbus scrapes javbus.com detail pages.
package javbus

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/argos/internal/fetch"
	"github.com/lepinkainen/argos/internal/metadata"
	"github.com/lepinkainen/argos/internal/provider"
	"github.com/lepinkainen/argos/internal/provider/parse"
)

const defaultBaseURL = "https://www.javbus.com"

// Provider fetches and parses javbus detail pages. Detail URLs are
// addressable directly by catalog number, no search step needed.
type Provider struct {
	Client  *fetch.Client
	BaseURL string
}

// New returns a javbus provider using the shared fetch client.
func New(client *fetch.Client) *Provider {
	return &Provider{Client: client}
}

func (p *Provider) Name() string { return "javbus" }

func (p *Provider) baseURL() string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return defaultBaseURL
}

// Fetch retrieves the detail page for req.Identifier and parses it.
func (p *Provider) Fetch(ctx context.Context, req provider.Request) (metadata.Record, error) {
	pageURL := req.AppointURL
	if pageURL == "" {
		pageURL = p.baseURL() + "/" + url.PathEscape(req.Identifier)
	}

	// The age-gate redirect's body is usually the full detail page, so
	// the fetch layer not following redirects past 400 is enough here.
	html, err := p.Client.Get(ctx, p.Name(), pageURL, map[string]string{
		"Cookie": "existmag=all",
	})
	if err != nil {
		return metadata.Record{}, err
	}
	return Parse(req.Identifier, html, pageURL)
}

// Parse converts a javbus detail page into a Record. It is a pure
// function of its inputs so fixtures can exercise it directly.
func Parse(identifier string, html []byte, pageURL string) (metadata.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return metadata.Record{}, err
	}

	// Verify this is a detail page for the requested number before
	// trusting anything else on it; interstitial pages parse "fine" but
	// carry garbage.
	id := infoValue(doc, "識別碼", "识别码", "ID")
	if id == "" {
		return metadata.Record{}, fmt.Errorf("javbus: no catalog number on page (blocked or interstitial?)")
	}
	if !strings.EqualFold(id, identifier) {
		return metadata.Record{}, fmt.Errorf("javbus: page is for %s, wanted %s", id, identifier)
	}

	title := parse.NormalizeSpace(doc.Find("h3").First().Text())
	if title == "" {
		return metadata.Record{}, fmt.Errorf("javbus: empty title")
	}
	title = strings.TrimSpace(strings.TrimPrefix(title, identifier))

	rec := metadata.Record{
		Title:         title,
		OriginalTitle: title,
		ReleaseDate:   infoValue(doc, "發行日期", "发行日期", "Release Date"),
		Runtime:       parse.FirstInt(infoValue(doc, "長度", "长度", "Length")),
		Director:      infoValue(doc, "導演", "导演", "Director"),
		Studio:        infoValue(doc, "製作商", "制作商", "Studio"),
		Publisher:     infoValue(doc, "發行商", "发行商", "Label"),
		Series:        infoValue(doc, "系列", "Series"),
	}

	doc.Find("div.star-name a").Each(func(_ int, s *goquery.Selection) {
		if name := strings.TrimSpace(s.Text()); name != "" {
			rec.Cast = append(rec.Cast, name)
		}
	})

	doc.Find("span.genre a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.Contains(href, "/genre/") {
			if tag := strings.TrimSpace(s.Text()); tag != "" {
				rec.Tags = append(rec.Tags, tag)
			}
		}
	})

	if href, ok := doc.Find("a.bigImage").First().Attr("href"); ok {
		rec.Cover = parse.ResolveURL(pageURL, href)
	}
	doc.Find("#sample-waterfall a.sample-box").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			rec.Gallery = append(rec.Gallery, parse.ResolveURL(pageURL, href))
		}
	})

	return rec, nil
}

// infoValue finds the value following one of the given header labels in
// the detail info block.
func infoValue(doc *goquery.Document, labels ...string) string {
	value := ""
	doc.Find("div.info p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		header := strings.TrimSpace(s.Find("span.header").First().Text())
		header = strings.TrimSuffix(header, ":")
		header = strings.TrimSuffix(header, "：")
		for _, label := range labels {
			if header == label {
				// Value is either a link or the trailing text after the
				// header span.
				if v := strings.TrimSpace(s.Find("a").First().Text()); v != "" {
					value = v
					return false
				}
				full := parse.NormalizeSpace(s.Text())
				value = strings.TrimSpace(strings.TrimPrefix(full, header+":"))
				value = strings.TrimSpace(strings.TrimPrefix(value, header))
				value = strings.TrimLeft(value, ":： ")
				return false
			}
		}
		return true
	})
	return value
}
