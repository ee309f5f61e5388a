package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/onemedi/onemedi/internal/platform/clientstate"
)

// Store holds one user's cart. All mutations go through its methods; each
// mutation is staged, persisted as a whole, and only then committed to live
// state and announced to subscribers. A failed write leaves the cart exactly
// as it was, so memory and storage never diverge.
type Store struct {
	mu           sync.RWMutex
	items        []Item
	prescription string

	storage clientstate.Storage
	key     string

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func NewStore(storage clientstate.Storage, key string) *Store {
	return &Store{
		storage: storage,
		key:     key,
		subs:    make(map[int]func()),
	}
}

// Load rehydrates the cart from storage. Items with a non-positive quantity
// are dropped rather than carried into live state.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if data == nil {
		return nil
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}

	s.mu.Lock()
	s.items = s.items[:0]
	for _, it := range st.Items {
		if it.Qty >= 1 {
			s.items = append(s.items, it)
		}
	}
	s.prescription = st.Prescription
	s.mu.Unlock()
	return nil
}

// AddItem inserts the item with quantity 1, or increments the quantity of an
// existing item with the same id. On increment the stored name, price and MRP
// are kept even if the caller supplies different values.
func (s *Store) AddItem(ctx context.Context, item Item) error {
	if item.ID == "" {
		return fmt.Errorf("item id is required")
	}
	s.mu.Lock()
	next := s.copyItemsLocked()
	found := false
	for i := range next {
		if next[i].ID == item.ID {
			next[i].Qty++
			found = true
			break
		}
	}
	if !found {
		item.Qty = 1
		next = append(next, item)
	}
	err := s.commitLocked(ctx, next, s.prescription)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// RemoveItem removes the item. A missing id is not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	next := s.copyItemsLocked()
	for i := range next {
		if next[i].ID == id {
			next = append(next[:i], next[i+1:]...)
			break
		}
	}
	err := s.commitLocked(ctx, next, s.prescription)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetQuantity replaces the stored quantity. A quantity of zero or below
// removes the item.
func (s *Store) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, id)
	}
	s.mu.Lock()
	next := s.copyItemsLocked()
	for i := range next {
		if next[i].ID == id {
			next[i].Qty = qty
			break
		}
	}
	err := s.commitLocked(ctx, next, s.prescription)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetPrescription replaces the single prescription slot. An empty ref clears it.
func (s *Store) SetPrescription(ctx context.Context, ref string) error {
	s.mu.Lock()
	err := s.commitLocked(ctx, s.items, ref)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear empties items and prescription together.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.commitLocked(ctx, nil, "")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Items returns a copy of the current line items.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Prescription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prescription
}

// TotalPrice is the sum of price times quantity over all items, recomputed
// on every call.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, it := range s.items {
		total += it.Price * float64(it.Qty)
	}
	return total
}

// TotalMRP is the sum of MRP times quantity over all items.
func (s *Store) TotalMRP() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, it := range s.items {
		total += it.MRP * float64(it.Qty)
	}
	return total
}

// View snapshots the cart with derived totals for API responses.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	var price, mrp float64
	for _, it := range s.items {
		price += it.Price * float64(it.Qty)
		mrp += it.MRP * float64(it.Qty)
	}
	return View{
		Items:        items,
		Prescription: s.prescription,
		TotalPrice:   price,
		TotalMRP:     mrp,
	}
}

// Subscribe registers fn to run after every mutation. The returned func
// unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// copyItemsLocked returns a mutable copy of the live items for staging a
// change. Caller holds s.mu.
func (s *Store) copyItemsLocked() []Item {
	next := make([]Item, len(s.items))
	copy(next, s.items)
	return next
}

// commitLocked persists the staged state and, only on success, makes it the
// live state. Caller holds s.mu.
func (s *Store) commitLocked(ctx context.Context, items []Item, prescription string) error {
	st := state{Items: items, Prescription: prescription}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	s.items = items
	s.prescription = prescription
	return nil
}
