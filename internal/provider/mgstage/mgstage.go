// Package mgstage scrapes mgstage.com product pages. This is the home
// site for most amateur labels, so it is queried with the full
// numeric-prefixed identifier, never the short form.
package mgstage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/argos/internal/fetch"
	"github.com/lepinkainen/argos/internal/metadata"
	"github.com/lepinkainen/argos/internal/provider"
	"github.com/lepinkainen/argos/internal/provider/parse"
)

const defaultBaseURL = "https://www.mgstage.com"

// Provider fetches and parses mgstage product pages.
type Provider struct {
	Client  *fetch.Client
	BaseURL string
}

// New returns an mgstage provider using the shared fetch client.
func New(client *fetch.Client) *Provider {
	return &Provider{Client: client}
}

func (p *Provider) Name() string { return "mgstage" }

func (p *Provider) baseURL() string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return defaultBaseURL
}

// Fetch retrieves the product page for req.Identifier and parses it.
// The adc cookie passes the age gate without a redirect round trip.
func (p *Provider) Fetch(ctx context.Context, req provider.Request) (metadata.Record, error) {
	pageURL := req.AppointURL
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/product/product_detail/%s/",
			p.baseURL(), strings.ToUpper(req.Identifier))
	}

	html, err := p.Client.Get(ctx, p.Name(), pageURL, map[string]string{
		"Cookie": "adc=1",
	})
	if err != nil {
		return metadata.Record{}, err
	}
	return Parse(req.Identifier, html, pageURL)
}

// Parse converts an mgstage product page into a Record.
func Parse(identifier string, html []byte, pageURL string) (metadata.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return metadata.Record{}, err
	}

	title := parse.NormalizeSpace(doc.Find("h1.tag").First().Text())
	if title == "" {
		return metadata.Record{}, fmt.Errorf("mgstage: no product title (page missing or age gate)")
	}

	rec := metadata.Record{
		Title:         title,
		OriginalTitle: title,
	}

	doc.Find("div.detail_data table tr").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find("th").First().Text())
		value := s.Find("td").First()
		switch {
		case strings.HasPrefix(label, "品番"):
			id := strings.TrimSpace(value.Text())
			if id != "" && !strings.EqualFold(id, identifier) {
				rec.Title = ""
			}
		case strings.HasPrefix(label, "配信開始日"), strings.HasPrefix(label, "商品発売日"):
			if rec.ReleaseDate == "" {
				rec.ReleaseDate = strings.TrimSpace(value.Text())
			}
		case strings.HasPrefix(label, "収録時間"):
			rec.Runtime = parse.FirstInt(value.Text())
		case strings.HasPrefix(label, "出演"):
			for _, name := range parse.Texts(value.Find("a")) {
				rec.Cast = append(rec.Cast, name)
			}
			if len(rec.Cast) == 0 {
				if name := strings.TrimSpace(value.Text()); name != "" {
					rec.Cast = append(rec.Cast, name)
				}
			}
		case strings.HasPrefix(label, "メーカー"):
			rec.Studio = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "レーベル"):
			rec.Publisher = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "シリーズ"):
			rec.Series = strings.TrimSpace(value.Text())
		case strings.HasPrefix(label, "ジャンル"):
			rec.Tags = parse.Texts(value.Find("a"))
		}
	})

	if rec.Title == "" {
		return metadata.Record{}, fmt.Errorf("mgstage: page does not match %s", identifier)
	}

	rec.Synopsis = parse.NormalizeSpace(doc.Find("dl#introduction p.introduction").First().Text())
	if rec.Synopsis == "" {
		rec.Synopsis = parse.NormalizeSpace(doc.Find("p.txt.introduction").First().Text())
	}
	rec.OriginalSynopsis = rec.Synopsis

	if href, ok := doc.Find("a#EnlargeImage").First().Attr("href"); ok {
		rec.Cover = parse.ResolveURL(pageURL, href)
	}
	doc.Find("a.sample_image").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			rec.Gallery = append(rec.Gallery, parse.ResolveURL(pageURL, href))
		}
	})

	// The sample player URL carries the trailer; it is a plain link on
	// the button, not embedded JS state.
	if href, ok := doc.Find("a.button_sample").First().Attr("href"); ok {
		rec.Trailer = parse.ResolveURL(pageURL, href)
	}

	return rec, nil
}
