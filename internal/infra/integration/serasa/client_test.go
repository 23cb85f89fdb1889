package serasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientEmptyURLUsesDefault(t *testing.T) {
	c := NewClient("tok", "")

	// O default inclui o segmento /serasa; perder o caminho faria toda
	// consulta paga retornar 404.
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Contains(t, c.baseURL, "/serasa")
}

func TestScoreRequestsUnderBasePath(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"score":720}`))
	}))
	defer srv.Close()

	c := NewClient("tok", srv.URL+"/serasa")

	score, err := c.Score(context.Background(), "529.982.247-25")

	assert.NoError(t, err)
	assert.Equal(t, "/serasa/52998224725", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, 720, *score)
}

func TestScoreWithoutTokenFails(t *testing.T) {
	c := NewClient("", "")

	assert.False(t, c.Configured())
	_, err := c.Score(context.Background(), "52998224725")
	assert.Error(t, err)
}
