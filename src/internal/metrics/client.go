// FILE: logdot/src/internal/metrics/client.go
package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"logdot/src/internal/core"
	"logdot/src/internal/transport"

	"github.com/lixenwraith/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

var ErrEntityNotFound = errors.New("entity not found")

// Client resolves metrics entities and hands out entity-scoped clients.
// Successful resolutions are cached for the life of the client; failures are
// not, so the next call retries from scratch.
type Client struct {
	transport transport.Transport
	cache     EntityCache
	logger    *log.Logger

	group singleflight.Group

	errMu   sync.Mutex
	lastErr error
}

// NewClient creates a metrics client. A nil cache selects a MemoryCache.
func NewClient(tr transport.Transport, cache EntityCache, logger *log.Logger) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Client{
		transport: tr,
		cache:     cache,
		logger:    logger,
	}
}

// GetOrCreateEntity returns the entity named name, creating it if needed.
// A create that conflicts with an existing entity falls back to a lookup, so
// repeated calls with the same name yield the same id.
func (c *Client) GetOrCreateEntity(ctx context.Context, name, description string, metadata core.Tags) (*core.Entity, error) {
	if name == "" {
		err := fmt.Errorf("entity name is required")
		c.setLastError(err)
		return nil, err
	}

	if e, ok := c.cached(ctx, name); ok {
		c.setLastError(nil)
		return e, nil
	}

	v, err, shared := c.group.Do(name, func() (any, error) {
		return c.resolve(ctx, name, description, metadata)
	})
	if err != nil {
		c.logger.Warn("msg", "Entity resolution failed",
			"component", "metrics",
			"entity", name,
			"error", err)
		c.setLastError(err)
		return nil, err
	}

	entity := *v.(*core.Entity)
	c.logger.Debug("msg", "Entity resolved",
		"component", "metrics",
		"entity", name,
		"entity_id", entity.ID,
		"shared", shared)
	c.setLastError(nil)
	return &entity, nil
}

func (c *Client) cached(ctx context.Context, name string) (*core.Entity, bool) {
	e, ok, err := c.cache.Get(ctx, name)
	if err != nil {
		c.logger.Warn("msg", "Entity cache read failed",
			"component", "metrics",
			"entity", name,
			"error", err)
		return nil, false
	}
	return e, ok
}

func (c *Client) resolve(ctx context.Context, name, description string, metadata core.Tags) (*core.Entity, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata.Clone()
	}

	resp, err := c.transport.Deliver(ctx, transport.Request{
		Endpoint: transport.EntityCreate,
		Body:     body,
	})
	if transport.IsConflict(err) {
		resp, err = c.transport.Deliver(ctx, transport.Request{
			Endpoint: transport.EntityLookup,
			Name:     name,
		})
		if transport.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, name)
		}
	}
	if err != nil {
		return nil, err
	}

	entity, err := parseEntity(resp.Body, name)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, entity); err != nil {
		c.logger.Warn("msg", "Entity cache write failed",
			"component", "metrics",
			"entity", name,
			"error", err)
	}
	return entity, nil
}

// parseEntity accepts both {"data": {...}} and bare entity responses.
func parseEntity(body []byte, name string) (*core.Entity, error) {
	obj := gjson.GetBytes(body, "data")
	if !obj.IsObject() {
		obj = gjson.ParseBytes(body)
	}

	id := obj.Get("id").String()
	if id == "" {
		return nil, fmt.Errorf("entity response has no id")
	}

	e := &core.Entity{
		ID:          id,
		Name:        obj.Get("name").String(),
		Description: obj.Get("description").String(),
	}
	if e.Name == "" {
		e.Name = name
	}
	if md := obj.Get("metadata"); md.IsObject() {
		e.Metadata = core.Tags{}
		md.ForEach(func(k, v gjson.Result) bool {
			e.Metadata[k.String()] = v.Value()
			return true
		})
	}
	return e, nil
}

// ForEntity binds a new entity-scoped client. No network call is made.
func (c *Client) ForEntity(entityID string) *EntityClient {
	return &EntityClient{
		parent:   c,
		entityID: entityID,
	}
}

// LastError returns the error of the most recent resolution, nil if it succeeded.
func (c *Client) LastError() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

func (c *Client) setLastError(err error) {
	c.errMu.Lock()
	c.lastErr = err
	c.errMu.Unlock()
}
