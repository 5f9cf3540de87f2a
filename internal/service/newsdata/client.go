package newsdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinPulse/internal/domain/models"
	domsvc "CoinPulse/internal/domain/service"
	phttp "CoinPulse/pkg/http"
	"CoinPulse/pkg/util"
)

// Client fetches news articles from the NewsData.io API.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *phttp.Client
}

var _ domsvc.NewsProvider = (*Client)(nil)

// New creates a NewsData client.
func New(baseURL, apiKey string, pageSize int, timeout time.Duration) *Client {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pageSize: pageSize,
		http:     phttp.NewClient(phttp.WithTimeout(timeout)),
	}
}

type newsResponse struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Results      []newsArticle `json:"results"`
	NextPage     string        `json:"nextPage"`
}

type newsArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	SourceID    string   `json:"source_id"`
	PubDate     string   `json:"pubDate"`
	Keywords    []string `json:"keywords"`
}

// News returns up to limit recent English articles matching the query.
// The page token comes from a previous NewsPage.NextPage; pass "" for
// the first page.
func (c *Client) News(ctx context.Context, query, page string, limit int) (*models.NewsPage, error) {
	if limit <= 0 || limit > c.pageSize {
		limit = c.pageSize
	}

	params := map[string][]string{
		"apikey":   {c.apiKey},
		"q":        {query},
		"language": {"en"},
		"size":     {strconv.Itoa(limit)},
	}
	if page != "" {
		params["page"] = []string{page}
	}

	var payload newsResponse
	opts := &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         c.baseURL + "/news",
		QueryParams: params,
		Headers:     map[string]string{"Accept": "application/json"},
	}
	if err := c.http.SendAndParse(ctx, opts, &payload); err != nil {
		return nil, fmt.Errorf("newsdata %q: %w", query, err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("newsdata %q: status %q", query, payload.Status)
	}

	out := &models.NewsPage{
		Symbol:   strings.ToUpper(query),
		Items:    make([]models.NewsItem, 0, len(payload.Results)),
		NextPage: payload.NextPage,
	}
	for _, a := range payload.Results {
		item := models.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			Link:        a.Link,
			Source:      a.SourceID,
		}
		if ts, ok := util.ParseTime(a.PubDate); ok {
			item.PublishedAt = ts
		}
		out.Items = append(out.Items, item)
		if len(out.Items) >= limit {
			break
		}
	}
	return out, nil
}
