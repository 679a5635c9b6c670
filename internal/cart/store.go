package cart

import (
	"context"
	"encoding/json"

	"github.com/loaai-rashad/scentorini-shop/internal/logging"
)

// Storage persists the full serialized line list under a cart key. Load must
// return (nil, nil) when no cart exists for the key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Store holds one customer's cart and writes every mutation through to its
// Storage. It is not safe for concurrent use; callers hold one Store per
// request.
type Store struct {
	key     string
	storage Storage
	lines   []Line
}

// Open loads the persisted cart for key. A missing, unreadable, or corrupt
// persisted value seeds an empty cart; it never fails.
func Open(ctx context.Context, storage Storage, key string) *Store {
	s := &Store{key: key, storage: storage}
	raw, err := storage.Load(ctx, key)
	if err != nil {
		logging.FromCtx(ctx).Warn("cart load failed, starting empty", "cart", key, "error", err)
		return s
	}
	if len(raw) == 0 {
		return s
	}
	if err := json.Unmarshal(raw, &s.lines); err != nil {
		logging.FromCtx(ctx).Warn("cart payload corrupt, starting empty", "cart", key, "error", err)
		s.lines = nil
	}
	return s
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) IsEmpty() bool { return len(s.lines) == 0 }

// Add merges by id: an existing line gains one unit only while its stock
// ceiling allows it, silently staying put otherwise. A new id is appended
// with quantity 1. Composite lines always enter as-is with quantity 1.
func (s *Store) Add(ctx context.Context, line Line) error {
	for i := range s.lines {
		if s.lines[i].ID != line.ID {
			continue
		}
		if !s.lines[i].Composite() && s.lines[i].Quantity < s.lines[i].StockCeiling {
			s.lines[i].Quantity++
			return s.persist(ctx)
		}
		// at ceiling (or composite): no duplicate, no error
		return nil
	}
	line.Quantity = 1
	s.lines = append(s.lines, line)
	return s.persist(ctx)
}

// Remove deletes the line with the given id. Absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(s.lines) {
		return nil
	}
	s.lines = kept
	return s.persist(ctx)
}

// SetQuantity sets a catalog line's quantity to min(n, ceiling). Composite
// lines keep quantity 1.
func (s *Store) SetQuantity(ctx context.Context, id string, n int) error {
	l := s.find(id)
	if l == nil || l.Composite() {
		return nil
	}
	if n > l.StockCeiling {
		n = l.StockCeiling
	}
	l.Quantity = n
	return s.persist(ctx)
}

// Increment adds one unit, clamped to the stock ceiling.
func (s *Store) Increment(ctx context.Context, id string) error {
	l := s.find(id)
	if l == nil || l.Composite() {
		return nil
	}
	if l.Quantity >= l.StockCeiling {
		return nil
	}
	l.Quantity++
	return s.persist(ctx)
}

// Decrement removes one unit but never drops below 1; Remove deletes a line
// outright.
func (s *Store) Decrement(ctx context.Context, id string) error {
	l := s.find(id)
	if l == nil || l.Composite() {
		return nil
	}
	if l.Quantity <= 1 {
		return nil
	}
	l.Quantity--
	return s.persist(ctx)
}

// Clear empties the cart and drops the persisted value.
func (s *Store) Clear(ctx context.Context) error {
	s.lines = nil
	if err := s.storage.Delete(ctx, s.key); err != nil {
		logging.FromCtx(ctx).Warn("cart clear failed", "cart", s.key, "error", err)
		return err
	}
	return nil
}

func (s *Store) find(id string) *Line {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return &s.lines[i]
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, s.key, raw); err != nil {
		logging.FromCtx(ctx).Warn("cart save failed", "cart", s.key, "error", err)
		return err
	}
	return nil
}
