package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

func TestAlgoliaSearch(t *testing.T) {
	t.Run("normalizes hits", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/1/indexes/docs/query", r.URL.Path)
			assert.Equal(t, "APP123", r.Header.Get("X-Algolia-Application-Id"))
			assert.Equal(t, "secret", r.Header.Get("X-Algolia-API-Key"))
			w.Write([]byte(`{
				"hits": [{
					"objectID": "doc-1",
					"title": "Getting started",
					"body": "First steps",
					"_highlightResult": {"title": {"value": "<em>Getting</em> started"}},
					"_rankingInfo": {"userScore": 42}
				}],
				"nbHits": 1
			}`))
		}))
		defer srv.Close()

		c := NewClient("APP123", "secret", "docs", srv.URL)
		hits, err := c.Search(context.Background(), "getting")
		require.NoError(t, err)
		require.Len(t, hits, 1)

		hit := hits[0]
		assert.Equal(t, "doc-1", hit.ID)
		assert.Equal(t, float64(42), hit.Score)
		assert.Contains(t, hit.Highlights, "title")
		assert.Equal(t, "Getting started", hit.Fields["title"])
		assert.Equal(t, "First steps", hit.Fields["body"])
		assert.NotContains(t, hit.Fields, "objectID")
		assert.NotContains(t, hit.Fields, "_highlightResult")
	})

	t.Run("hit without ranking info keeps zero score", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hits": [{"objectID": "doc-2", "title": "Plain"}]}`))
		}))
		defer srv.Close()

		c := NewClient("APP123", "secret", "docs", srv.URL)
		hits, err := c.Search(context.Background(), "plain")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Zero(t, hits[0].Score)
	})

	t.Run("missing hits field is unparseable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"nbHits": 0}`))
		}))
		defer srv.Close()

		c := NewClient("APP123", "secret", "docs", srv.URL)
		_, err := c.Search(context.Background(), "anything")
		assert.ErrorIs(t, err, upstream.ErrUnparseable)
	})

	t.Run("upstream non-2xx includes body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "Invalid Application-ID or API key"}`))
		}))
		defer srv.Close()

		c := NewClient("APP123", "secret", "docs", srv.URL)
		_, err := c.Search(context.Background(), "anything")

		var ue *upstream.Error
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, http.StatusForbidden, ue.Status)
		assert.Contains(t, ue.Body, "Invalid Application-ID")
	})
}

func TestAlgoliaConfigured(t *testing.T) {
	assert.True(t, NewClient("app", "key", "idx", "").Configured())
	assert.False(t, NewClient("", "key", "idx", "").Configured())
	assert.False(t, NewClient("app", "", "idx", "").Configured())
	assert.False(t, NewClient("app", "key", "", "").Configured())
}

func TestDerivedBaseURL(t *testing.T) {
	c := NewClient("MyApp", "key", "idx", "")
	assert.Equal(t, "https://myapp-dsn.algolia.net", c.baseURL)
}
