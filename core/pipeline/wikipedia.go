package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/siherrmann/chunkcompare/helper"
	"github.com/tidwall/gjson"
)

const (
	wikipediaUserAgent = "chunkcompare/1.0 (https://github.com/siherrmann/chunkcompare)"
	maxArticleBytes    = 8 << 20
)

// WikipediaFetcher loads plain text articles from the MediaWiki API
type WikipediaFetcher struct {
	client *http.Client
	apiURL string
}

// NewWikipediaFetcher creates a fetcher for the given api.php endpoint
func NewWikipediaFetcher(apiURL string, timeout time.Duration) *WikipediaFetcher {
	if apiURL == "" {
		apiURL = helper.DefaultWikipediaAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &WikipediaFetcher{
		client: &http.Client{Timeout: timeout},
		apiURL: apiURL,
	}
}

// Fetch returns the plain text of the page with exactly this title.
// Redirects are followed, title suggestions are not. A missing page is an error.
func (f *WikipediaFetcher) Fetch(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", helper.NewError("build wikipedia request", err)
	}
	req.Header.Set("User-Agent", wikipediaUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", helper.NewError("fetch wikipedia page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", helper.NewError("fetch wikipedia page", fmt.Errorf("HTTP %d for %q", resp.StatusCode, title))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return "", helper.NewError("read wikipedia page", err)
	}

	return parseExtract(body, title)
}

func parseExtract(body []byte, title string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", helper.NewError("parse wikipedia page", fmt.Errorf("invalid json for %q", title))
	}

	result := gjson.ParseBytes(body)
	if apiErr := result.Get("error.info"); apiErr.Exists() {
		return "", helper.NewError("parse wikipedia page", fmt.Errorf("%s: %s", result.Get("error.code").String(), apiErr.String()))
	}

	page := result.Get("query.pages.0")
	if !page.Exists() {
		return "", helper.NewError("parse wikipedia page", fmt.Errorf("no page returned for %q", title))
	}
	if page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return "", helper.NewError("parse wikipedia page", fmt.Errorf("page %q does not exist", title))
	}

	extract := page.Get("extract").String()
	if extract == "" {
		return "", helper.NewError("parse wikipedia page", fmt.Errorf("page %q has no text", title))
	}

	return extract, nil
}
