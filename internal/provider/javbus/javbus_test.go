package javbus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/argos/internal/fetch"
	"github.com/lepinkainen/argos/internal/provider"
)

const detailPage = `<!DOCTYPE html>
<html><body>
<div class="container">
  <h3>ABC-123 素敵な映画のタイトル</h3>
  <div class="row movie">
    <div class="col-md-9 screencap">
      <a class="bigImage" href="/pics/cover/abc123_b.jpg"><img src="/pics/cover/abc123_b.jpg"></a>
    </div>
    <div class="col-md-3 info">
      <p><span class="header">識別碼:</span> <span style="color:#CC0000;">ABC-123</span></p>
      <p><span class="header">發行日期:</span> 2023-04-05</p>
      <p><span class="header">長度:</span> 120分鐘</p>
      <p><span class="header">導演:</span> <a href="/director/xyz">監督太郎</a></p>
      <p><span class="header">製作商:</span> <a href="/studio/abc">スタジオA</a></p>
      <p><span class="header">發行商:</span> <a href="/label/abc">レーベルB</a></p>
      <p><span class="header">系列:</span> <a href="/series/abc">シリーズC</a></p>
      <p class="star-show"><span class="header">演員:</span></p>
      <div class="star-name"><a href="/star/1">花子</a></div>
      <div class="star-name"><a href="/star/2">太郎</a></div>
      <p><span class="genre"><a href="/genre/1">ドラマ</a></span>
         <span class="genre"><a href="/genre/2">単体作品</a></span>
         <span class="genre"><a href="/uncensored/x">無関係</a></span></p>
    </div>
  </div>
  <div id="sample-waterfall">
    <a class="sample-box" href="/pics/sample/abc123_1.jpg"></a>
    <a class="sample-box" href="/pics/sample/abc123_2.jpg"></a>
  </div>
</div>
</body></html>`

func TestParse(t *testing.T) {
	rec, err := Parse("ABC-123", []byte(detailPage), "https://www.javbus.com/ABC-123")
	require.NoError(t, err)

	assert.Equal(t, "素敵な映画のタイトル", rec.Title)
	assert.Equal(t, rec.Title, rec.OriginalTitle)
	assert.Equal(t, "2023-04-05", rec.ReleaseDate)
	assert.Equal(t, "120", rec.Runtime)
	assert.Equal(t, "監督太郎", rec.Director)
	assert.Equal(t, "スタジオA", rec.Studio)
	assert.Equal(t, "レーベルB", rec.Publisher)
	assert.Equal(t, "シリーズC", rec.Series)
	assert.Equal(t, []string{"花子", "太郎"}, rec.Cast)
	assert.Equal(t, []string{"ドラマ", "単体作品"}, rec.Tags)
	assert.Equal(t, "https://www.javbus.com/pics/cover/abc123_b.jpg", rec.Cover)
	assert.Equal(t, []string{
		"https://www.javbus.com/pics/sample/abc123_1.jpg",
		"https://www.javbus.com/pics/sample/abc123_2.jpg",
	}, rec.Gallery)
}

func TestParseRejectsWrongNumber(t *testing.T) {
	_, err := Parse("XYZ-999", []byte(detailPage), "https://www.javbus.com/XYZ-999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XYZ-999")
}

func TestParseRejectsInterstitial(t *testing.T) {
	_, err := Parse("ABC-123", []byte("<html><body>Checking your browser</body></html>"),
		"https://www.javbus.com/ABC-123")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ABC-123", r.URL.Path)
		assert.Contains(t, r.Header.Get("Cookie"), "existmag=all")
		_, _ = w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	p := New(fetch.New(fetch.WithRate(100, 100)))
	p.BaseURL = srv.URL

	rec, err := p.Fetch(context.Background(), provider.Request{Identifier: "ABC-123"})
	require.NoError(t, err)
	assert.Equal(t, "素敵な映画のタイトル", rec.Title)
}

func TestFetchAppointedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/some/detail/page", r.URL.Path)
		_, _ = w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	p := New(fetch.New(fetch.WithRate(100, 100)))

	rec, err := p.Fetch(context.Background(), provider.Request{
		Identifier: "ABC-123",
		AppointURL: srv.URL + "/some/detail/page",
	})
	require.NoError(t, err)
	assert.Equal(t, "素敵な映画のタイトル", rec.Title)
}
