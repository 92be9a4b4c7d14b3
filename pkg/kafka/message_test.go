package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchRequest(t *testing.T) {
	t.Run("search term request", func(t *testing.T) {
		msg := &IncomingMessage{
			Value: []byte(`{
				"type": "match.request",
				"request_id": "req-1",
				"tenant_id": "tenant-1",
				"search_term": "wireless headphones",
				"max_results": 3
			}`),
		}

		require.NoError(t, msg.ParseMatchRequest())
		require.NotNil(t, msg.MatchRequest)
		assert.Equal(t, "wireless headphones", msg.MatchRequest.SearchTerm)
		assert.Equal(t, 3, msg.MatchRequest.MaxResults)
		assert.Equal(t, "tenant-1", msg.GetTenantID())
		assert.Equal(t, "req-1", msg.GetRequestID())
	})

	t.Run("source record request with inline fields", func(t *testing.T) {
		msg := &IncomingMessage{
			Value: []byte(`{
				"type": "match.request",
				"source": {"brand": "Sony", "title": "Wireless Headphones"},
				"fallback_term": "audio"
			}`),
		}

		require.NoError(t, msg.ParseMatchRequest())
		assert.Equal(t, "Sony", msg.MatchRequest.Source["brand"])
		assert.Equal(t, "audio", msg.MatchRequest.FallbackTerm)
	})

	t.Run("neither search term nor source is rejected", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"type": "match.request"}`)}
		err := msg.ParseMatchRequest()
		assert.Error(t, err)
		assert.Nil(t, msg.MatchRequest)
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`not json`)}
		assert.Error(t, msg.ParseMatchRequest())
	})
}

func TestIncomingMessageFallbacks(t *testing.T) {
	t.Run("tenant falls back to the header", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers: map[string]string{"tenant_id": "tenant-2"},
			Value:   []byte(`{"search_term": "desk"}`),
		}
		require.NoError(t, msg.ParseMatchRequest())
		assert.Equal(t, "tenant-2", msg.GetTenantID())
	})

	t.Run("request id falls back to the message key", func(t *testing.T) {
		msg := &IncomingMessage{
			Key:   "key-9",
			Value: []byte(`{"search_term": "desk"}`),
		}
		require.NoError(t, msg.ParseMatchRequest())
		assert.Equal(t, "key-9", msg.GetRequestID())
	})
}
