// Package media proxies stock-photo searches to the Pexels API.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

// Photo is a normalized photo record.
type Photo struct {
	ID           int64  `json:"id"`
	Photographer string `json:"photographer"`
	URL          string `json:"url"`
	Src          Src    `json:"src"`
}

type Src struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Small    string `json:"small"`
}

// Result is the normalized search result page.
type Result struct {
	Photos       []Photo `json:"photos"`
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: upstream.DefaultTimeout},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// pexelsResponse enumerates the fields we extract. Photos is a pointer so a
// payload without the photos field at all is distinguishable from an empty
// result page.
type pexelsResponse struct {
	Photos *[]struct {
		ID           int64  `json:"id"`
		Photographer string `json:"photographer"`
		URL          string `json:"url"`
		Src          struct {
			Original string `json:"original"`
			Large    string `json:"large"`
			Medium   string `json:"medium"`
			Small    string `json:"small"`
		} `json:"src"`
	} `json:"photos"`
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalResults int `json:"total_results"`
}

func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*Result, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	reqURL := c.baseURL + "/v1/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

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
		return nil, &upstream.Error{Service: "pexels", Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed pexelsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Photos == nil {
		return nil, upstream.ErrUnparseable
	}

	result := &Result{
		Photos:       make([]Photo, 0, len(*parsed.Photos)),
		Page:         parsed.Page,
		PerPage:      parsed.PerPage,
		TotalResults: parsed.TotalResults,
	}
	if result.Page == 0 {
		result.Page = page
	}
	if result.PerPage == 0 {
		result.PerPage = perPage
	}
	for _, p := range *parsed.Photos {
		result.Photos = append(result.Photos, Photo{
			ID:           p.ID,
			Photographer: p.Photographer,
			URL:          p.URL,
			Src: Src{
				Original: p.Src.Original,
				Large:    p.Src.Large,
				Medium:   p.Src.Medium,
				Small:    p.Src.Small,
			},
		})
	}
	return result, nil
}
