// Package objectgw implements the Object Store Gateway (spec §4.3):
// putJson/putText/getJson/exists over a blob store, with retried writes
// and reads, and a 404 short-circuiting exists() to a definitive false
// rather than retrying.
package objectgw

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/retry"
)

// ErrNotFound is returned by a Backend when a key does not exist. Gateway
// treats it as a definitive "false" for Exists and does not retry it.
var ErrNotFound = errors.New("object not found")

// Backend is the raw blob-store operation set (S3, or an in-memory fake).
type Backend interface {
	PutText(ctx context.Context, key string, contents []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Gateway is the spec-facing Object Store Gateway.
type Gateway struct {
	backend Backend
	log     *obslog.Logger
}

// New wraps a Backend with retry and JSON encoding/decoding.
func New(backend Backend) *Gateway {
	return &Gateway{backend: backend, log: obslog.For("object-gateway")}
}

// PutJson marshals v and writes it under key, retried up to 3 times.
func (g *Gateway) PutJson(ctx context.Context, key string, v map[string]any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return g.PutText(ctx, key, string(body), "application/json")
}

// PutText writes contents under key with the given content type, retried.
func (g *Gateway) PutText(ctx context.Context, key string, contents string, contentType string) error {
	return retry.Do(ctx, g.log, "put:"+key, func(ctx context.Context) error {
		return g.backend.PutText(ctx, key, []byte(contents), contentType)
	})
}

// GetJson reads and decodes the JSON object at key, retried.
func (g *Gateway) GetJson(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := retry.Do(ctx, g.log, "get:"+key, func(ctx context.Context) error {
		body, err := g.backend.Get(ctx, key)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether key is present. A definitive not-found response
// short-circuits to false without retrying; any other error is retried
// like the other operations (spec §4.3).
func (g *Gateway) Exists(ctx context.Context, key string) (bool, error) {
	found := false
	err := retry.Do(ctx, g.log, "exists:"+key, func(ctx context.Context) error {
		_, err := g.backend.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
