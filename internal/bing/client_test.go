package bing

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/iWorld-y/ai_news_daily/internal/search"
)

// roundTripFunc allows using a function as http.RoundTripper
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestBingSearchSuccess(t *testing.T) {
	c := NewClient("subkey", 0)
	c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Ocp-Apim-Subscription-Key"); got != "subkey" {
			t.Errorf("Ocp-Apim-Subscription-Key = %q, want subkey", got)
		}
		q := req.URL.Query()
		if q.Get("q") != "ai news" || q.Get("count") != "3" {
			t.Errorf("params = %v, want q and count", q)
		}
		if q.Get("responseFilter") != "Webpages" {
			t.Errorf("responseFilter = %q, want Webpages", q.Get("responseFilter"))
		}
		return jsonResponse(200, `{"webPages":{"value":[
			{"name":"A","url":"http://a.example","snippet":"sa"},
			{"name":"no url","snippet":"dropped"}
		]}}`), nil
	})}

	got := c.Search(context.Background(), search.Query{Text: "ai news", MaxResults: 3})
	if len(got) != 1 {
		t.Fatalf("Search() len = %d, want 1", len(got))
	}
	// name 字段映射为标题
	if got[0].Title != "A" || got[0].URL != "http://a.example" || got[0].Content != "sa" {
		t.Errorf("got[0] = %+v, want name/url/snippet mapped", got[0])
	}
}

func TestBingDegradesOnError(t *testing.T) {
	c := NewClient("subkey", 0)
	for _, status := range []int{401, 429, 500} {
		c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(status, "err"), nil
		})}
		if got := c.Search(context.Background(), search.Query{Text: "q", MaxResults: 5}); got != nil {
			t.Errorf("Search() with status %d = %+v, want nil", status, got)
		}
	}
}
