package newsdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("apikey"); got != "news-key" {
			t.Errorf("apikey = %q", got)
		}
		if got := q.Get("q"); got != "bitcoin" {
			t.Errorf("q = %q", got)
		}
		if got := q.Get("language"); got != "en" {
			t.Errorf("language = %q", got)
		}
		if got := q.Get("size"); got != "2" {
			t.Errorf("size = %q", got)
		}
		if q.Has("page") {
			t.Errorf("first page request must not carry a page token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status":"success",
			"totalResults":2,
			"results":[
				{"title":"Bitcoin rallies","description":"up","link":"https://example.com/a","source_id":"example","pubDate":"2026-08-30 09:15:00"},
				{"title":"Miners expand","description":"more","link":"https://example.com/b","source_id":"other","pubDate":"2026-08-29 18:00:00"}
			],
			"nextPage":"tok-2"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "news-key", 10, 5*time.Second)
	page, err := c.News(context.Background(), "bitcoin", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Symbol != "BITCOIN" {
		t.Fatalf("symbol = %q", page.Symbol)
	}
	if page.NextPage != "tok-2" {
		t.Fatalf("next page = %q", page.NextPage)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	first := page.Items[0]
	if first.Title != "Bitcoin rallies" || first.Link != "https://example.com/a" || first.Source != "example" {
		t.Fatalf("unexpected first item %+v", first)
	}
	want := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("published_at = %v, want %v", first.PublishedAt, want)
	}
}

func TestNewsPageToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "tok-2" {
			t.Errorf("page = %q, want tok-2", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","totalResults":0,"results":[],"nextPage":""}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", 10, 5*time.Second)
	page, err := c.News(context.Background(), "bitcoin", "tok-2", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 || page.NextPage != "" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestNewsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","results":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", 10, 5*time.Second)
	if _, err := c.News(context.Background(), "bitcoin", "", 5); err == nil {
		t.Fatalf("expected error for non-success status")
	}
}

func TestNewsClampsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("size"); got != "10" {
			t.Errorf("size = %q, want clamped 10", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","results":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", 10, 5*time.Second)
	if _, err := c.News(context.Background(), "bitcoin", "", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
