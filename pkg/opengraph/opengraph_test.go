package opengraph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Safra recorde de soja">
<meta property="og:image" content="/img/soja.jpg">
<meta name="description" content="Conab revisa estimativa">
</head><body></body></html>`

func TestParse(t *testing.T) {
	meta, err := Parse(strings.NewReader(page), "https://www.noticiasagricolas.com.br/artigo/1")
	require.NoError(t, err)

	assert.Equal(t, "Safra recorde de soja", meta.Title)
	assert.Equal(t, "https://www.noticiasagricolas.com.br/img/soja.jpg", meta.Image)
	assert.Equal(t, "Conab revisa estimativa", meta.Description)
	assert.Equal(t, "noticiasagricolas.com.br", meta.SiteName)
}

func TestParseFallsBackToTitleTag(t *testing.T) {
	meta, err := Parse(strings.NewReader(`<html><head><title> Só título </title></head></html>`), "https://x.com")
	require.NoError(t, err)
	assert.Equal(t, "Só título", meta.Title)
	assert.Empty(t, meta.Image)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	meta, err := f.Fetch(context.Background(), srv.URL+"/artigo")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/img/soja.jpg", meta.Image)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
