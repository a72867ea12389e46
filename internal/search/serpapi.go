package search

import (
	"context"
	"errors"
	"strconv"
	"strings"

	serpapi "github.com/serpapi/google-search-results-golang"
)

type fetchFunc func(parameter map[string]string, apiKey string) (map[string]interface{}, error)

// SerpAPIService searches Google News through SerpApi.
type SerpAPIService struct {
	apiKey     string
	maxResults int
	fetch      fetchFunc
}

func NewSerpAPIService(apiKey string, maxResults int) *SerpAPIService {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SerpAPIService{apiKey: apiKey, maxResults: maxResults, fetch: googleSearch}
}

func (s *SerpAPIService) Search(ctx context.Context, keywords []string) ([]Resource, error) {
	query := strings.TrimSpace(strings.Join(keywords, " "))
	if query == "" {
		return nil, errors.New("empty search query")
	}

	parameter := map[string]string{
		"q":   query,
		"tbm": "nws",
		"num": strconv.Itoa(s.maxResults),
	}

	type result struct {
		rsp map[string]interface{}
		err error
	}
	// The SerpApi client takes no context, so the call is raced against ctx.
	// An abandoned fetch is bounded by the SDK's own http.Client timeout.
	done := make(chan result, 1)
	go func() {
		rsp, err := s.fetch(parameter, s.apiKey)
		done <- result{rsp: rsp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return s.parse(res.rsp), nil
	}
}

func (s *SerpAPIService) parse(rsp map[string]interface{}) []Resource {
	items, ok := rsp["news_results"].([]interface{})
	if !ok {
		items, _ = rsp["organic_results"].([]interface{})
	}

	var resources []Resource
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		resource := Resource{
			Title:   stringField(entry, "title"),
			URL:     stringField(entry, "link"),
			Snippet: stringField(entry, "snippet"),
			Source:  stringField(entry, "source"),
		}
		// News results nest the publisher under source.name.
		if nested, ok := entry["source"].(map[string]interface{}); ok {
			resource.Source = stringField(nested, "name")
		}
		if resource.Title == "" || resource.URL == "" {
			continue
		}
		resources = append(resources, resource)
		if len(resources) == s.maxResults {
			break
		}
	}
	return resources
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func googleSearch(parameter map[string]string, apiKey string) (map[string]interface{}, error) {
	query := serpapi.NewGoogleSearch(parameter, apiKey)
	rsp, err := query.GetJSON()
	if err != nil {
		return nil, err
	}
	return rsp, nil
}
