// Package search proxies query requests to a hosted Algolia index and
// normalizes the hit records.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

// Hit is a normalized search result: the object id, its ranking score when
// the index exposes one, the highlight metadata, and the raw document
// fields with Algolia's internal keys stripped.
type Hit struct {
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	Highlights map[string]any `json:"highlights,omitempty"`
	Fields     map[string]any `json:"fields"`
}

type Client struct {
	appID   string
	apiKey  string
	index   string
	baseURL string
	client  *http.Client
}

// NewClient builds an Algolia client. When baseURL is empty the standard
// per-application DSN host is derived from the app id.
func NewClient(appID, apiKey, index, baseURL string) *Client {
	if baseURL == "" && appID != "" {
		baseURL = fmt.Sprintf("https://%s-dsn.algolia.net", strings.ToLower(appID))
	}
	return &Client{
		appID:   appID,
		apiKey:  apiKey,
		index:   index,
		baseURL: baseURL,
		client:  &http.Client{Timeout: upstream.DefaultTimeout},
	}
}

func (c *Client) Configured() bool {
	return c.appID != "" && c.apiKey != "" && c.index != ""
}

type queryRequest struct {
	Params string `json:"params"`
}

type queryResponse struct {
	Hits *[]json.RawMessage `json:"hits"`
}

// rawHit enumerates the Algolia-internal fields we extract from each hit.
type rawHit struct {
	ObjectID        string         `json:"objectID"`
	HighlightResult map[string]any `json:"_highlightResult"`
	RankingInfo     *struct {
		UserScore float64 `json:"userScore"`
	} `json:"_rankingInfo"`
}

func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	body, err := json.Marshal(queryRequest{
		Params: "query=" + url.QueryEscape(query),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/1/indexes/%s/query", c.baseURL, url.PathEscape(c.index))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.appID)
	req.Header.Set("X-Algolia-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &upstream.Error{Service: "algolia", Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed queryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Hits == nil {
		return nil, upstream.ErrUnparseable
	}

	hits := make([]Hit, 0, len(*parsed.Hits))
	for _, h := range *parsed.Hits {
		hit, err := normalizeHit(h)
		if err != nil {
			return nil, upstream.ErrUnparseable
		}
		hits = append(hits, *hit)
	}
	return hits, nil
}

// normalizeHit maps one loosely-typed hit document to a Hit. Internal keys
// (objectID and underscore-prefixed metadata) are moved out of the document
// fields into their typed slots.
func normalizeHit(data json.RawMessage) (*Hit, error) {
	var meta rawHit
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	delete(fields, "objectID")
	for k := range fields {
		if strings.HasPrefix(k, "_") {
			delete(fields, k)
		}
	}

	hit := &Hit{
		ID:         meta.ObjectID,
		Highlights: meta.HighlightResult,
		Fields:     fields,
	}
	if meta.RankingInfo != nil {
		hit.Score = meta.RankingInfo.UserScore
	}
	return hit, nil
}
