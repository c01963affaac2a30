// Package explain tracks per-item explanation generation for one analysis run.
//
// Each item key moves Idle → Generating → {Ready, Error}, and back to Generating
// on regeneration. A completion is applied only when it belongs to the request
// that is currently in flight for that key, in a cache that has not been retired.
package explain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/internal/metrics"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

var (
	ErrGenerationInProgress = errors.New("explanation generation already in progress")
	ErrRetired              = errors.New("explanation cache superseded by a newer analysis")
	ErrUnknownKey           = fmt.Errorf("%w: no such item in the current analysis", contract.ErrInputValidation)
)

// Ticket identifies one generation request. It is only valid for the cache that issued it.
type Ticket struct {
	Key     string
	Epoch   uint64
	version uint64
}

type entry struct {
	rec     models.ExplanationRecord
	version uint64
}

// Cache holds one ExplanationRecord per distinct item key. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	epoch   uint64
	retired bool
	order   []string
	entries map[string]*entry
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates Idle records for keys. Duplicate keys share one record.
func New(epoch uint64, keys []string, m *metrics.Metrics) *Cache {
	c := &Cache{
		epoch:   epoch,
		entries: make(map[string]*entry, len(keys)),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, k := range keys {
		if _, ok := c.entries[k]; ok {
			continue
		}
		c.order = append(c.order, k)
		c.entries[k] = &entry{rec: models.ExplanationRecord{
			Key:       k,
			State:     models.ExplanationIdle,
			UpdatedAt: c.now(),
		}}
	}
	return c
}

func (c *Cache) Epoch() uint64 { return c.epoch }

// Begin moves key to Generating and returns the ticket its completion must present.
// A key that is already Generating is rejected.
func (c *Cache) Begin(key string) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retired {
		return Ticket{}, ErrRetired
	}
	e, ok := c.entries[key]
	if !ok {
		return Ticket{}, ErrUnknownKey
	}
	if e.rec.State == models.ExplanationGenerating {
		return Ticket{}, ErrGenerationInProgress
	}

	e.version++
	e.rec.State = models.ExplanationGenerating
	e.rec.Error = ""
	e.rec.UpdatedAt = c.now()
	c.metrics.ObserveExplanation(string(models.ExplanationGenerating))
	return Ticket{Key: key, Epoch: c.epoch, version: e.version}, nil
}

// Complete stores a successful explanation. It reports false when the ticket is stale.
func (c *Cache) Complete(t Ticket, out contract.ExplainOutput) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.current(t)
	if !ok {
		return false
	}
	e.rec.State = models.ExplanationReady
	e.rec.ExplanationImage = out.ExplanationImage
	e.rec.ExplanationText = out.ExplanationText
	e.rec.ConfidenceScore = out.ConfidenceScore
	e.rec.Error = ""
	e.rec.UpdatedAt = c.now()
	c.metrics.ObserveExplanation(string(models.ExplanationReady))
	return true
}

// Fail moves the key to Error and drops any earlier explanation. Other keys are untouched.
func (c *Cache) Fail(t Ticket, cause error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.current(t)
	if !ok {
		return false
	}
	e.rec.State = models.ExplanationError
	e.rec.ExplanationImage = ""
	e.rec.ExplanationText = ""
	e.rec.ConfidenceScore = 0
	e.rec.Error = cause.Error()
	e.rec.UpdatedAt = c.now()
	c.metrics.ObserveExplanation(string(models.ExplanationError))
	return true
}

// current must be called with mu held.
func (c *Cache) current(t Ticket) (*entry, bool) {
	e, ok := c.entries[t.Key]
	if c.retired || !ok || t.Epoch != c.epoch || t.version != e.version || e.rec.State != models.ExplanationGenerating {
		c.metrics.IncStaleCompletion()
		return nil, false
	}
	return e, true
}

// Retire discards every later completion. Called when a new analysis replaces this run.
func (c *Cache) Retire() {
	c.mu.Lock()
	c.retired = true
	c.mu.Unlock()
}

func (c *Cache) Get(key string) (models.ExplanationRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return models.ExplanationRecord{}, false
	}
	return e.rec, true
}

// Snapshot returns every record in item order.
func (c *Cache) Snapshot() []models.ExplanationRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ExplanationRecord, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k].rec)
	}
	return out
}
