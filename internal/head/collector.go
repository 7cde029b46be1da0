package head

import (
	"context"
	"sync"
)

// Collector accumulates head elements for a single render pass.
type Collector struct {
	mu       sync.Mutex
	elements []Element
}

func NewCollector() *Collector {
	return &Collector{}
}

// Record appends el. Elements of an unknown kind are ignored.
func (c *Collector) Record(el Element) {
	if el.Kind != KindTitle && el.Kind != KindMeta {
		return
	}
	el.Attrs = el.Attrs.Clone()

	c.mu.Lock()
	c.elements = append(c.elements, el)
	c.mu.Unlock()
}

// Rewind returns everything recorded so far and clears the collector.
func (c *Collector) Rewind() []Element {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.elements
	c.elements = nil
	if out == nil {
		out = []Element{}
	}
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.elements)
}

type collectorKey struct{}

func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// FromContext returns the collector attached to ctx, or nil.
func FromContext(ctx context.Context) *Collector {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

// Record adds el to the collector carried by ctx. Without one it does nothing.
func Record(ctx context.Context, el Element) {
	if c := FromContext(ctx); c != nil {
		c.Record(el)
	}
}
