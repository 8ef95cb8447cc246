// Package quotes owns the quote collection.
//
// Store keeps the ordered collection in memory and writes it through a
// Persistence port on every mutation. A failed write restores the previous
// collection before the error is returned.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/logging"
)

type Store struct {
	mu          sync.RWMutex
	persistence Persistence
	quotes      []entities.Quote
	lastShown   *entities.Quote
	intn        func(n int) int
	logger      *zap.SugaredLogger
}

type Option func(*Store)

// WithIntn replaces the random source used by Random.
func WithIntn(intn func(n int) int) Option {
	return func(s *Store) {
		s.intn = intn
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(persistence Persistence, opts ...Option) *Store {
	s := &Store{
		persistence: persistence,
		quotes:      []entities.Quote{},
		intn:        rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Load replaces the collection with the persisted one. Missing or corrupt
// state is replaced by the seed quotes, which are then saved.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.persistence.Load(ctx)
	switch {
	case err == nil:
		s.quotes = loaded
		s.logger.Infof("Loaded %d quotes", len(loaded))
		return nil
	case errors.Is(err, ErrNoSavedState):
		s.logger.Infof("No saved quotes, starting from seed")
	case errors.Is(err, ErrCorruptState):
		s.logger.Warnf("Saved quotes are unusable, falling back to seed: %v", err)
	default:
		return fmt.Errorf("failed to load quotes: %w", err)
	}

	s.quotes = entities.SeedQuotes()
	if err := s.persistence.Save(ctx, s.quotes); err != nil {
		return fmt.Errorf("failed to save seed quotes: %w", err)
	}
	return nil
}

// Add validates and appends a quote. The added quote becomes the last shown one.
func (s *Store) Add(ctx context.Context, text, category string) (entities.Quote, error) {
	quote := entities.NewQuote(text, category)
	if err := validate(quote, -1); err != nil {
		return entities.Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, []entities.Quote{quote}); err != nil {
		return entities.Quote{}, err
	}
	s.lastShown = &quote
	return quote, nil
}

// Append adds every quote in order with a single save. Nothing is appended
// if any element is invalid.
func (s *Store) Append(ctx context.Context, quotes []entities.Quote) error {
	normalized := make([]entities.Quote, 0, len(quotes))
	for i, q := range quotes {
		quote := entities.NewQuote(q.Text, q.Category)
		if err := validate(quote, i); err != nil {
			return err
		}
		normalized = append(normalized, quote)
	}
	if len(normalized) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, normalized)
}

// MergeNew appends the candidates whose text is not already present, either
// in the collection or earlier in the batch, and returns them. The collection
// is saved once, and only when something was merged.
func (s *Store) MergeNew(ctx context.Context, candidates []entities.Quote) ([]entities.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.quotes)+len(candidates))
	for _, q := range s.quotes {
		seen[q.Text] = struct{}{}
	}

	fresh := []entities.Quote{}
	for _, c := range candidates {
		if !c.IsValid() {
			s.logger.Debugf("Skipping invalid sync candidate %q", c.Text)
			continue
		}
		if _, ok := seen[c.Text]; ok {
			continue
		}
		seen[c.Text] = struct{}{}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return fresh, nil
	}

	if err := s.commit(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// commit appends and saves; the caller holds the write lock.
func (s *Store) commit(ctx context.Context, added []entities.Quote) error {
	previous := s.quotes
	next := make([]entities.Quote, 0, len(previous)+len(added))
	next = append(next, previous...)
	next = append(next, added...)

	if err := s.persistence.Save(ctx, next); err != nil {
		s.quotes = previous
		return fmt.Errorf("failed to save quotes: %w", err)
	}
	s.quotes = next
	return nil
}

// Random picks a quote uniformly and records it as last shown.
// It returns false when the collection is empty.
func (s *Store) Random() (entities.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.quotes) == 0 {
		return entities.Quote{}, false
	}
	quote := s.quotes[s.intn(len(s.quotes))]
	s.lastShown = &quote
	return quote, true
}

func (s *Store) LastShown() (entities.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastShown == nil {
		return entities.Quote{}, false
	}
	return *s.lastShown, true
}

// ByCategory returns the quotes in the given category in collection order,
// or all of them for entities.CategoryAll. The result is never nil.
func (s *Store) ByCategory(filter string) []entities.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == entities.CategoryAll {
		return s.snapshot()
	}

	matched := []entities.Quote{}
	for _, q := range s.quotes {
		if q.Category == filter {
			matched = append(matched, q)
		}
	}
	return matched
}

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, q := range s.quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}
	return categories
}

func (s *Store) All() []entities.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes)
}

func (s *Store) snapshot() []entities.Quote {
	out := make([]entities.Quote, len(s.quotes))
	copy(out, s.quotes)
	return out
}

func validate(q entities.Quote, index int) error {
	if q.Text == "" {
		return &ValidationError{Field: "text", Index: index}
	}
	if q.Category == "" {
		return &ValidationError{Field: "category", Index: index}
	}
	return nil
}
