package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

func TestPexelsSearch(t *testing.T) {
	t.Run("normalizes photos", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/search", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "sunset", r.URL.Query().Get("query"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "5", r.URL.Query().Get("per_page"))
			w.Write([]byte(`{
				"photos": [{
					"id": 1181424,
					"photographer": "Christina Morillo",
					"url": "https://www.pexels.com/photo/1181424/",
					"avg_color": "#756C63",
					"src": {
						"original": "https://images.pexels.com/1181424/original.jpg",
						"large": "https://images.pexels.com/1181424/large.jpg",
						"medium": "https://images.pexels.com/1181424/medium.jpg",
						"small": "https://images.pexels.com/1181424/small.jpg",
						"tiny": "https://images.pexels.com/1181424/tiny.jpg"
					}
				}],
				"page": 2,
				"per_page": 5,
				"total_results": 321
			}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		result, err := c.Search(context.Background(), "sunset", 2, 5)
		require.NoError(t, err)

		require.Len(t, result.Photos, 1)
		p := result.Photos[0]
		assert.Equal(t, int64(1181424), p.ID)
		assert.Equal(t, "Christina Morillo", p.Photographer)
		assert.Equal(t, "https://images.pexels.com/1181424/original.jpg", p.Src.Original)
		assert.Equal(t, "https://images.pexels.com/1181424/small.jpg", p.Src.Small)
		assert.Equal(t, 2, result.Page)
		assert.Equal(t, 5, result.PerPage)
		assert.Equal(t, 321, result.TotalResults)
	})

	t.Run("missing photos field is unparseable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"page": 1}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		_, err := c.Search(context.Background(), "sunset", 1, 10)
		assert.ErrorIs(t, err, upstream.ErrUnparseable)
	})

	t.Run("upstream non-2xx includes body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Access to this API has been disallowed"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		_, err := c.Search(context.Background(), "sunset", 1, 10)

		var ue *upstream.Error
		require.ErrorAs(t, err, &ue)
		assert.Contains(t, ue.Body, "disallowed")
	})
}
