package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpAPIServiceSearch(t *testing.T) {
	t.Run("parses news results", func(t *testing.T) {
		var gotParams map[string]string
		svc := NewSerpAPIService("key", 2)
		svc.fetch = func(parameter map[string]string, apiKey string) (map[string]interface{}, error) {
			gotParams = parameter
			assert.Equal(t, "key", apiKey)
			return map[string]interface{}{
				"news_results": []interface{}{
					map[string]interface{}{
						"title":   "Filecoin storage deals grow",
						"link":    "https://news.example/fil",
						"snippet": "Deals are up",
						"source":  map[string]interface{}{"name": "CoinDesk"},
					},
					map[string]interface{}{"title": "missing link"},
					map[string]interface{}{
						"title":  "FIL unlock schedule",
						"link":   "https://news.example/unlock",
						"source": "The Block",
					},
					map[string]interface{}{
						"title": "third result",
						"link":  "https://news.example/3",
					},
				},
			}, nil
		}

		resources, err := svc.Search(context.Background(), []string{"Filecoin", "risk"})
		require.NoError(t, err)

		assert.Equal(t, "Filecoin risk", gotParams["q"])
		assert.Equal(t, "nws", gotParams["tbm"])
		assert.Equal(t, "2", gotParams["num"])
		assert.Equal(t, []Resource{
			{Title: "Filecoin storage deals grow", Source: "CoinDesk", URL: "https://news.example/fil", Snippet: "Deals are up"},
			{Title: "FIL unlock schedule", Source: "The Block", URL: "https://news.example/unlock"},
		}, resources)
	})

	t.Run("falls back to organic results", func(t *testing.T) {
		svc := NewSerpAPIService("key", 5)
		svc.fetch = func(map[string]string, string) (map[string]interface{}, error) {
			return map[string]interface{}{
				"organic_results": []interface{}{
					map[string]interface{}{"title": "Bitcoin", "link": "https://bitcoin.org", "source": "bitcoin.org"},
				},
			}, nil
		}

		resources, err := svc.Search(context.Background(), []string{"bitcoin"})
		require.NoError(t, err)
		require.Len(t, resources, 1)
		assert.Equal(t, "bitcoin.org", resources[0].Source)
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		svc := NewSerpAPIService("key", 5)
		svc.fetch = func(map[string]string, string) (map[string]interface{}, error) {
			return nil, errors.New("quota exceeded")
		}

		_, err := svc.Search(context.Background(), []string{"eth"})
		assert.EqualError(t, err, "quota exceeded")
	})

	t.Run("rejects empty query", func(t *testing.T) {
		_, err := NewSerpAPIService("key", 5).Search(context.Background(), []string{" "})
		assert.Error(t, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		svc := NewSerpAPIService("key", 5)
		svc.fetch = func(map[string]string, string) (map[string]interface{}, error) {
			<-release
			return nil, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := svc.Search(ctx, []string{"eth"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNoop(t *testing.T) {
	resources, err := Noop{}.Search(context.Background(), []string{"anything"})
	assert.NoError(t, err)
	assert.Empty(t, resources)
}
