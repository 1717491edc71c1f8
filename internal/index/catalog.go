package index

import (
	"sync"
)

// Catalog resolves channel names to their published index snapshots. A
// publish swaps the in-memory snapshot under a write lock after the store
// has persisted it, so concurrent readers always see a complete index.
// There is no cross-channel state: each entry is independent.
type Catalog struct {
	mu      sync.RWMutex
	store   Store
	indexes map[string]*Index
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store, indexes: make(map[string]*Index)}
}

// Publish persists the index and makes it the channel's visible snapshot.
// The previous snapshot stays visible until the new one is durable.
func (c *Catalog) Publish(ix *Index) error {
	if err := c.store.Save(ix); err != nil {
		return err
	}
	c.mu.Lock()
	c.indexes[ix.Metadata().ChannelName] = ix
	c.mu.Unlock()
	return nil
}

// Get returns the channel's published snapshot, loading it from the store on
// first access. Returns domain.ErrIndexNotFound when the channel has never
// been built.
func (c *Catalog) Get(channel string) (*Index, error) {
	c.mu.RLock()
	ix, ok := c.indexes[channel]
	c.mu.RUnlock()
	if ok {
		return ix, nil
	}
	ix, err := c.store.Load(channel)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.indexes[channel] = ix
	c.mu.Unlock()
	return ix, nil
}
