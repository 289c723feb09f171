package parse

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpace("  a \n b\t\tc  "))
	assert.Equal(t, "", NormalizeSpace(" \n\t "))
}

func TestFirstInt(t *testing.T) {
	assert.Equal(t, "120", FirstInt("120分"))
	assert.Equal(t, "", FirstInt("no digits"))
}

func TestFirstFloat(t *testing.T) {
	assert.Equal(t, "4.52", FirstFloat("4.52分, 由823人評價"))
	assert.Equal(t, "5", FirstFloat("5 stars"))
	assert.Equal(t, "", FirstFloat("none"))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://example.com/img/a.jpg",
		ResolveURL("https://example.com/page", "/img/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.jpg",
		ResolveURL("https://example.com/page", "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "", ResolveURL("https://example.com/page", "  "))
}

func TestTexts(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<ul><li> a </li><li></li><li>b</li></ul>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, Texts(doc.Find("li")))
}
