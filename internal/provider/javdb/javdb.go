// Package javdb scrapes javdb.com through headless Chrome. The site
// fronts every page with a JavaScript challenge, so plain HTTP fetches
// come back empty.
package javdb

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/argos/internal/browser"
	"github.com/lepinkainen/argos/internal/metadata"
	"github.com/lepinkainen/argos/internal/provider"
	"github.com/lepinkainen/argos/internal/provider/parse"
)

const defaultBaseURL = "https://javdb.com"

// Provider resolves a catalog number via javdb's search page, then
// parses the detail page. Render is injectable so parsing can be tested
// without a browser.
type Provider struct {
	BaseURL string
	Render  func(ctx context.Context, url string) (string, error)
}

// New returns a javdb provider rendering through the shared headless
// browser configuration.
func New() *Provider {
	return &Provider{
		Render: func(ctx context.Context, url string) (string, error) {
			return browser.Render(ctx, url, browser.OptionsFromConfig())
		},
	}
}

func (p *Provider) Name() string { return "javdb" }

func (p *Provider) baseURL() string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return defaultBaseURL
}

// Fetch searches for the identifier, follows the first exact match and
// parses its detail page.
func (p *Provider) Fetch(ctx context.Context, req provider.Request) (metadata.Record, error) {
	detailURL := req.AppointURL
	if detailURL == "" {
		var err error
		detailURL, err = p.search(ctx, req.Identifier)
		if err != nil {
			return metadata.Record{}, err
		}
	}

	html, err := p.Render(ctx, detailURL)
	if err != nil {
		return metadata.Record{}, err
	}
	return Parse(req.Identifier, html, detailURL)
}

// search renders the search results page and returns the detail URL of
// the entry whose visible catalog number matches exactly.
func (p *Provider) search(ctx context.Context, identifier string) (string, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&f=all", p.baseURL(), url.QueryEscape(identifier))
	html, err := p.Render(ctx, searchURL)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var href string
	doc.Find("a.box").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		code := strings.TrimSpace(s.Find("div.video-title strong").First().Text())
		if !strings.EqualFold(code, identifier) {
			return true
		}
		href, _ = s.Attr("href")
		return false
	})
	if href == "" {
		return "", fmt.Errorf("javdb: no result for %s", identifier)
	}
	return parse.ResolveURL(searchURL, href), nil
}

var wantPattern = regexp.MustCompile(`(\d+)人想看`)

// Parse converts a javdb detail page into a Record.
func Parse(identifier, html, pageURL string) (metadata.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return metadata.Record{}, err
	}

	title := parse.NormalizeSpace(doc.Find("h2.title strong.current-title").First().Text())
	if title == "" {
		title = parse.NormalizeSpace(doc.Find("h2.title").First().Text())
	}
	if title == "" {
		return metadata.Record{}, fmt.Errorf("javdb: empty title")
	}
	// The origin-language title, when the UI shows a translated one, sits
	// in a sibling span and is the better OriginalTitle.
	original := parse.NormalizeSpace(doc.Find("h2.title span.origin-title").First().Text())
	if original == "" {
		original = title
	}

	rec := metadata.Record{
		Title:         strings.TrimSpace(strings.TrimPrefix(title, identifier)),
		OriginalTitle: strings.TrimSpace(strings.TrimPrefix(original, identifier)),
	}

	doc.Find("div.panel-block").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find("strong").First().Text())
		value := s.Find("span.value").First()
		switch {
		case strings.HasPrefix(label, "番號"), strings.HasPrefix(label, "番号"), strings.HasPrefix(label, "ID"):
			id := strings.TrimSpace(value.Text())
			if id != "" && !strings.EqualFold(id, identifier) {
				rec.Title = ""
			}
		case strings.HasPrefix(label, "日期"), strings.HasPrefix(label, "Released"):
			rec.ReleaseDate = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "時長"), strings.HasPrefix(label, "时长"), strings.HasPrefix(label, "Duration"):
			rec.Runtime = parse.FirstInt(value.Text())
		case strings.HasPrefix(label, "導演"), strings.HasPrefix(label, "导演"), strings.HasPrefix(label, "Director"):
			rec.Director = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "片商"), strings.HasPrefix(label, "Maker"):
			rec.Studio = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "發行"), strings.HasPrefix(label, "发行"), strings.HasPrefix(label, "Publisher"):
			rec.Publisher = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "系列"), strings.HasPrefix(label, "Series"):
			rec.Series = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "評分"), strings.HasPrefix(label, "评分"), strings.HasPrefix(label, "Rating"):
			rec.Rating = parse.FirstFloat(value.Text())
		case strings.HasPrefix(label, "類別"), strings.HasPrefix(label, "类别"), strings.HasPrefix(label, "Tags"):
			rec.Tags = parse.Texts(value.Find("a"))
		case strings.HasPrefix(label, "演員"), strings.HasPrefix(label, "演员"), strings.HasPrefix(label, "Actor"):
			value.Find("a").Each(func(_ int, a *goquery.Selection) {
				// Gender marker follows each name as a sibling symbol;
				// keep female performers, the male marker is ♂.
				if strings.Contains(a.Next().Text(), "♂") {
					return
				}
				if name := strings.TrimSpace(a.Text()); name != "" {
					rec.Cast = append(rec.Cast, name)
				}
			})
		}
	})

	if rec.Title == "" {
		return metadata.Record{}, fmt.Errorf("javdb: page does not match %s", identifier)
	}

	if src, ok := doc.Find("img.video-cover").First().Attr("src"); ok {
		rec.Cover = parse.ResolveURL(pageURL, src)
	}
	doc.Find("div.tile-images a.tile-item").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			rec.Gallery = append(rec.Gallery, parse.ResolveURL(pageURL, href))
		}
	})
	if m := wantPattern.FindStringSubmatch(doc.Find("span.is-size-7").Text()); m != nil {
		rec.WantCount = m[1]
	}
	if src, ok := doc.Find("video#preview-video source").First().Attr("src"); ok {
		rec.Trailer = parse.ResolveURL(pageURL, src)
	}

	return rec, nil
}
