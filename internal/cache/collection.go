package cache

import (
	"fmt"

	"github.com/zarlcorp/core/pkg/zstore"
)

// collectionName is the zstore collection holding cache entries.
const collectionName = "cache"

// entry wraps a raw value with its key so lookups can be done from a listing.
type entry struct {
	Key  string `json:"key"`
	Data []byte `json:"data"`
}

// CollectionCache keeps entries in a zstore collection.
// It shares the store's encryption and lifecycle; closing the store is the
// caller's job.
type CollectionCache struct {
	col *zstore.Collection[entry]
}

// NewCollection opens the cache collection on an already open store.
func NewCollection(s *zstore.Store) (*CollectionCache, error) {
	col, err := zstore.NewCollection[entry](s, collectionName)
	if err != nil {
		return nil, fmt.Errorf("open cache collection: %w", err)
	}
	return &CollectionCache{col: col}, nil
}

// Get returns the value stored under key.
func (c *CollectionCache) Get(key string) ([]byte, error) {
	e, ok, err := c.find(key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return e.Data, nil
}

// Put writes value under key.
func (c *CollectionCache) Put(key string, value []byte) error {
	if err := c.col.Put(key, entry{Key: key, Data: value}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key if present.
func (c *CollectionCache) Delete(key string) error {
	_, ok, err := c.find(key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if !ok {
		return nil
	}

	if err := c.col.Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// find scans the collection; it holds a handful of keys at most.
func (c *CollectionCache) find(key string) (entry, bool, error) {
	all, err := c.col.List()
	if err != nil {
		return entry{}, false, err
	}

	for _, e := range all {
		if e.Key == key {
			return e, true, nil
		}
	}
	return entry{}, false, nil
}
