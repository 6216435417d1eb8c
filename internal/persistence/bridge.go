package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// LoadResult is what the bridge found in the slot.
type LoadResult struct {
	State   *bakery.GameState
	Found   bool // a readable save existed
	Corrupt bool // a blob existed but could not be parsed
	Offline rules.OfflineGain
}

// Bridge moves a bakery between the engine and a BlobStore.
type Bridge struct {
	store  BlobStore
	key    string
	cat    *catalog.Catalog
	bal    rules.Balance
	logger *logger.Logger
}

// NewBridge binds a store slot. An empty key selects DefaultSaveKey.
func NewBridge(store BlobStore, key string, cat *catalog.Catalog, bal rules.Balance, log *logger.Logger) *Bridge {
	if key == "" {
		key = DefaultSaveKey
	}
	return &Bridge{
		store:  store,
		key:    key,
		cat:    cat,
		bal:    bal,
		logger: log,
	}
}

// Key returns the slot this bridge writes.
func (b *Bridge) Key() string {
	return b.key
}

// Save encodes and writes the state. It returns the blob size.
func (b *Bridge) Save(ctx context.Context, s *bakery.GameState) (int, error) {
	blob, err := Encode(s)
	if err != nil {
		return 0, err
	}
	if err := b.store.Save(ctx, b.key, blob); err != nil {
		return 0, fmt.Errorf("failed to write save %q: %w", b.key, err)
	}
	return len(blob), nil
}

// Load reads the slot and credits offline progress. A missing or corrupt
// blob yields a fresh bakery; only store failures are returned as errors.
func (b *Bridge) Load(ctx context.Context, now time.Time) (LoadResult, error) {
	blob, err := b.store.Load(ctx, b.key)
	if errors.Is(err, ErrNoSave) {
		return LoadResult{State: bakery.New(now)}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read save %q: %w", b.key, err)
	}

	decoded, err := Decode(blob, now)
	if err != nil {
		b.logger.Warnf("discarding save %q (%s): %v", b.key, format.Bytes(len(blob)), err)
		return LoadResult{State: bakery.New(now), Corrupt: true}, nil
	}
	if decoded.Legacy {
		b.logger.Warnf("save %q has no lifetimeCookies, rebuilt from totalCookies", b.key)
	}

	s := decoded.State
	away := now.Sub(s.LastSaveTime)
	gain := rules.OfflineEarnings(b.cat, b.bal, s, away)
	s.Credit(gain.Cookies)
	s.LastSaveTime = now
	if gain.Cookies > 0 {
		b.logger.Infof("welcome back to %s: %s offline earned %s cookies", s.BakeryName,
			format.Duration(gain.Credited), format.Cookies(gain.Cookies))
	}
	return LoadResult{State: s, Found: true, Offline: gain}, nil
}

// Delete clears the slot. Clearing an empty slot is not an error.
func (b *Bridge) Delete(ctx context.Context) error {
	if err := b.store.Delete(ctx, b.key); err != nil && !errors.Is(err, ErrNoSave) {
		return fmt.Errorf("failed to delete save %q: %w", b.key, err)
	}
	return nil
}
