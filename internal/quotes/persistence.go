package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/kv"
)

// Persistence loads and saves the whole collection.
type Persistence interface {
	// Load returns ErrNoSavedState when nothing was saved and ErrCorruptState
	// when the saved form is malformed.
	Load(ctx context.Context) ([]entities.Quote, error)
	Save(ctx context.Context, quotes []entities.Quote) error
}

// KVPersistence stores the collection as a JSON array under a single key.
type KVPersistence struct {
	store kv.Store
	key   string
}

// NewKVPersistence persists under entities.SettingKeyQuotes.
func NewKVPersistence(store kv.Store) *KVPersistence {
	return &KVPersistence{store: store, key: entities.SettingKeyQuotes}
}

func (p *KVPersistence) Load(ctx context.Context) ([]entities.Quote, error) {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoSavedState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", p.key, err)
	}

	return decodeCollection([]byte(raw))
}

func (p *KVPersistence) Save(ctx context.Context, quotes []entities.Quote) error {
	if quotes == nil {
		quotes = []entities.Quote{}
	}
	data, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("failed to encode quotes: %w", err)
	}
	if err := p.store.Set(ctx, p.key, string(data)); err != nil {
		return fmt.Errorf("failed to write %q: %w", p.key, err)
	}
	return nil
}

func decodeCollection(data []byte) ([]entities.Quote, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: not a JSON array", ErrCorruptState)
	}

	var items []entities.Quote
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	quotes := make([]entities.Quote, 0, len(items))
	for i, item := range items {
		if !item.IsValid() {
			return nil, fmt.Errorf("%w: element %d has an empty field", ErrCorruptState, i)
		}
		quotes = append(quotes, entities.NewQuote(item.Text, item.Category))
	}
	return quotes, nil
}

var _ Persistence = (*KVPersistence)(nil)
