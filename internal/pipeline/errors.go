package pipeline

import (
	"errors"
	"fmt"
	"sync"
)

// Collector accumulates non-fatal errors over a run so they can be reported
// together at the end. It is safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	errs []error
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records err. Nil errors are ignored.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Errors returns the recorded errors in the order they were added.
func (c *Collector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.errs))
	copy(out, c.errs)
	return out
}

// Messages returns the text of every recorded error.
func (c *Collector) Messages() []string {
	errs := c.Errors()
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// Len returns the number of recorded errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

// Err joins the recorded errors, or returns nil when there are none.
func (c *Collector) Err() error {
	return errors.Join(c.Errors()...)
}

// MetadataError reports that dataset metadata could not be derived from a table.
type MetadataError struct {
	Reason string
	Err    error
}

func (e *MetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("derive metadata: %s: %v", e.Reason, e.Err)
	}
	return "derive metadata: " + e.Reason
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}
