// Package parse holds the small goquery helpers shared by the provider
// adapters.
package parse

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var spacePattern = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses runs of whitespace into single spaces and
// trims the edges.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

var intPattern = regexp.MustCompile(`\d+`)

// FirstInt returns the first run of digits in s, or "" when none.
func FirstInt(s string) string {
	return intPattern.FindString(s)
}

var floatPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// FirstFloat returns the first decimal number in s, or "" when none.
func FirstFloat(s string) string {
	return floatPattern.FindString(s)
}

// ResolveURL resolves a possibly relative href against the page URL.
func ResolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Texts collects the trimmed text of every node in the selection,
// dropping empties.
func Texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
