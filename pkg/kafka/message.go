package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// MatchRequestMessage is the wire shape of an asynchronous matching request.
// Either the search term or the source record must be set: a search term
// drives a dual-catalog run, a source record drives the query cascade against
// the target catalog.
type MatchRequestMessage struct {
	Type      string `json:"type"` // "match.request"
	RequestID string `json:"request_id"`
	TenantID  string `json:"tenant_id"`
	models.MatchRequest
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the request carries enough to start a run
func (m *MatchRequestMessage) Validate() error {
	if m.SearchTerm == "" && len(m.Source) == 0 {
		return fmt.Errorf("match request requires a search_term or a source record")
	}
	return nil
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	MatchRequest *MatchRequestMessage
}

// ParseMatchRequest parses the message value as a match request
func (m *IncomingMessage) ParseMatchRequest() error {
	var req MatchRequestMessage
	if err := json.Unmarshal(m.Value, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	m.MatchRequest = &req
	return nil
}

// GetTenantID returns the tenant ID from the request, falling back to the
// message header
func (m *IncomingMessage) GetTenantID() string {
	if m.MatchRequest != nil && m.MatchRequest.TenantID != "" {
		return m.MatchRequest.TenantID
	}
	return m.Headers["tenant_id"]
}

// GetRequestID returns the request ID, falling back to the message key
func (m *IncomingMessage) GetRequestID() string {
	if m.MatchRequest != nil && m.MatchRequest.RequestID != "" {
		return m.MatchRequest.RequestID
	}
	return m.Key
}
