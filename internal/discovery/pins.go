package discovery

import (
	"context"
	"errors"
	"sync"

	"github.com/conftree/conftree/internal/storage"
)

// pinsKey is the storage key holding the pin mapping.
const pinsKey = "schema-pins"

// PinStore persists the per-document pinned schema mapping: config file
// absolute path to chosen schema file absolute path. Entries never
// expire; an absent entry means automatic discovery.
type PinStore struct {
	store *storage.Store
	mu    sync.Mutex
}

// NewPinStore creates a PinStore backed by the given store.
func NewPinStore(store *storage.Store) *PinStore {
	return &PinStore{store: store}
}

// Get returns the pinned schema path for a config file, if any.
func (p *PinStore) Get(ctx context.Context, configPath string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pins, err := p.load(ctx)
	if err != nil {
		return "", false
	}
	s, ok := pins[configPath]
	return s, ok
}

// Pin records schemaPath as the chosen schema for configPath.
func (p *PinStore) Pin(ctx context.Context, configPath, schemaPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pins, err := p.load(ctx)
	if err != nil {
		return err
	}
	pins[configPath] = schemaPath
	return p.store.Put(ctx, pinsKey, pins)
}

// Unpin removes the pin for configPath, restoring automatic discovery.
func (p *PinStore) Unpin(ctx context.Context, configPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pins, err := p.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := pins[configPath]; !ok {
		return nil
	}
	delete(pins, configPath)
	return p.store.Put(ctx, pinsKey, pins)
}

func (p *PinStore) load(ctx context.Context) (map[string]string, error) {
	pins := make(map[string]string)
	if err := p.store.Get(ctx, pinsKey, &pins); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return pins, nil
}
