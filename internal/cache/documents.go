package cache

import (
	"context"
	"encoding/json"
	"sync"

	"erpdesk/internal/document"
	"erpdesk/internal/logger"
)

const (
	listKey       = "documents:list"
	documentKeyNS = "documents:id:"

	// maxAttempts bounds re-fetching when invalidations keep racing a fetch.
	maxAttempts = 3
)

type FetchDocument func(ctx context.Context, id string) (document.Document, error)
type FetchList func(ctx context.Context) ([]document.Document, error)

// Documents is a read-through cache keyed by document id, plus one entry for
// the full list.
//
// Every key has a generation that Invalidate and Put advance. A fetch
// records the generation before it starts and only writes its result back
// if the generation is unchanged when it finishes, so a slow response can
// never replace state written after it began.
type Documents struct {
	backend Backend
	log     *logger.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func NewDocuments(backend Backend, log *logger.Logger) *Documents {
	return &Documents{
		backend:     backend,
		log:         logger.OrNop(log),
		generations: make(map[string]uint64),
	}
}

func documentKey(id string) string {
	return documentKeyNS + id
}

// Get returns the cached document or reads it through fetch.
func (d *Documents) Get(ctx context.Context, id string, fetch FetchDocument) (document.Document, error) {
	key := documentKey(id)
	var cached document.Document
	if d.lookup(ctx, key, &cached) {
		return cached, nil
	}

	var item document.Document
	for attempt := 0; attempt < maxAttempts; attempt++ {
		generation := d.generation(key)
		fetched, err := fetch(ctx, id)
		if err != nil {
			return document.Document{}, err
		}
		item = fetched
		if d.storeIfCurrent(ctx, key, generation, item) {
			return item, nil
		}
		d.log.Debugw("discarding superseded fetch", "key", key, "attempt", attempt+1)
	}
	return item, nil
}

// List returns the cached list or reads it through fetch.
func (d *Documents) List(ctx context.Context, fetch FetchList) ([]document.Document, error) {
	var cached []document.Document
	if d.lookup(ctx, listKey, &cached) {
		return cached, nil
	}

	var items []document.Document
	for attempt := 0; attempt < maxAttempts; attempt++ {
		generation := d.generation(listKey)
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		items = fetched
		if d.storeIfCurrent(ctx, listKey, generation, items) {
			return items, nil
		}
		d.log.Debugw("discarding superseded fetch", "key", listKey, "attempt", attempt+1)
	}
	return items, nil
}

// Put records a document the store just returned from a write. The list
// entry is dropped since it no longer reflects the store.
func (d *Documents) Put(ctx context.Context, item document.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := documentKey(item.ID)
	d.generations[key]++
	d.generations[listKey]++
	if err := d.backend.Delete(ctx, listKey); err != nil {
		return err
	}
	return d.write(ctx, key, item)
}

// Invalidate drops the entry for id and the list entry.
func (d *Documents) Invalidate(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := documentKey(id)
	d.generations[key]++
	d.generations[listKey]++
	return d.backend.Delete(ctx, key, listKey)
}

// InvalidateList drops only the list entry.
func (d *Documents) InvalidateList(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generations[listKey]++
	return d.backend.Delete(ctx, listKey)
}

func (d *Documents) generation(key string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generations[key]
}

func (d *Documents) storeIfCurrent(ctx context.Context, key string, generation uint64, value any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generations[key] != generation {
		return false
	}
	if err := d.write(ctx, key, value); err != nil {
		d.log.Warnw("cache write failed", "key", key, "error", err)
	}
	return true
}

func (d *Documents) write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return d.backend.Set(ctx, key, data)
}

// lookup treats backend errors as misses so a cache outage degrades to
// direct store reads.
func (d *Documents) lookup(ctx context.Context, key string, target any) bool {
	data, ok, err := d.backend.Get(ctx, key)
	if err != nil {
		d.log.Warnw("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		d.log.Warnw("cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}
