package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/hupe1980/uboot/core"
)

// SchemaMiddleware validates outgoing messages against a JSON Schema
// registered per channel. Messages are encoded to JSON and the decoded
// document is validated, so any value encoding/json can marshal works as a
// message. Channels without a schema are not validated.
//
// Validation happens before delivery: an invalid message reaches no
// receiver and Send or Broadcast returns an error wrapping
// ErrInvalidMessage.
//
// Example:
//
//	type ChatMessage struct {
//	    From string `json:"from"`
//	    Text string `json:"text"`
//	}
//
//	schemas := middleware.NewSchemaMiddleware()
//	if err := middleware.RegisterType[ChatMessage](schemas, "chat"); err != nil {
//	    return err
//	}
type SchemaMiddleware struct {
	core.NoopMiddleware

	mu      sync.RWMutex
	schemas map[string]*jsonschema.Resolved // by channel id
}

// NewSchemaMiddleware creates a schema middleware without any schemas.
func NewSchemaMiddleware() *SchemaMiddleware {
	return &SchemaMiddleware{schemas: make(map[string]*jsonschema.Resolved)}
}

// Register resolves schema and uses it for every message sent on channelID.
// A later registration for the same channel replaces the earlier one.
func (m *SchemaMiddleware) Register(channelID string, schema *jsonschema.Schema) error {
	if schema == nil {
		return fmt.Errorf("schema for channel %q is nil", channelID)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolving schema for channel %q: %w", channelID, err)
	}

	m.mu.Lock()
	m.schemas[channelID] = resolved
	m.mu.Unlock()

	return nil
}

// RegisterType infers a JSON Schema from T and registers it for channelID.
func RegisterType[T any](m *SchemaMiddleware, channelID string) error {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return fmt.Errorf("generating schema for channel %q: %w", channelID, err)
	}
	return m.Register(channelID, schema)
}

// Validate checks message against the schema registered for channelID.
func (m *SchemaMiddleware) Validate(channelID string, message any) error {
	m.mu.RLock()
	resolved, ok := m.schemas[channelID]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%w: channel %q: encoding: %v", ErrInvalidMessage, channelID, err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("%w: channel %q: decoding: %v", ErrInvalidMessage, channelID, err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: channel %q: %v", ErrInvalidMessage, channelID, err)
	}

	return nil
}

// WrapRadio validates every message before Send and Broadcast delegate.
func (m *SchemaMiddleware) WrapRadio(radio core.Radio) core.Radio {
	return &schemaRadio{Radio: radio, schemas: m}
}

type schemaRadio struct {
	core.Radio
	schemas *SchemaMiddleware
}

func (r *schemaRadio) Send(ctx context.Context, message any, to ...string) (*core.Result, error) {
	if err := r.schemas.Validate(r.ChannelID(), message); err != nil {
		return nil, err
	}
	return r.Radio.Send(ctx, message, to...)
}

func (r *schemaRadio) Broadcast(ctx context.Context, message any) (*core.Result, error) {
	if err := r.schemas.Validate(r.ChannelID(), message); err != nil {
		return nil, err
	}
	return r.Radio.Broadcast(ctx, message)
}

var _ core.Middleware = (*SchemaMiddleware)(nil)
