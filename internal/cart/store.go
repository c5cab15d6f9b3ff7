// Package cart keeps the per-session mirror of the server-side cart.
// The store is the single writer of that mirror: every mutation goes to
// the backend and local state is replaced with the server's response,
// never recomputed from deltas. A failed mutation triggers a
// resynchronizing refetch before the server's message is surfaced.
package cart

import (
	"context"
	"errors"
	"sync"

	"freshthreads/internal/api"
	"freshthreads/internal/domain"
	"freshthreads/internal/services"
)

// Limits shown to the UI; the backend enforces the real ones.
const (
	MaxCartItems   = 50
	MaxUniqueItems = 20
)

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
	PhaseEmpty
)

var ErrMutationInFlight = errors.New("cart mutation already in flight")

// Backend is the slice of the cart service the store depends on.
type Backend interface {
	Get(ctx context.Context, creds api.Credentials) (*domain.Cart, error)
	Add(ctx context.Context, creds api.Credentials, req services.AddToCartRequest) (*domain.Cart, error)
	UpdateItem(ctx context.Context, creds api.Credentials, itemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, creds api.Credentials, itemID int64) (*domain.Cart, error)
	Clear(ctx context.Context, creds api.Credentials) error
}

// Result is the outcome of a cart operation. The presentation layer
// decides how to surface Message; the store never blocks on the user.
type Result struct {
	Cart     *domain.Cart
	SignIn   bool   // prompt sign-in instead of mutating
	OpenCart bool   // open the cart panel after a successful add
	Message  string // user-facing failure text, empty on success
}

func (r Result) OK() bool { return r.Message == "" && !r.SignIn }

type state struct {
	phase     Phase
	cart      *domain.Cart
	inFlight  bool
	needsSync bool // a failed mutation could not be resynced yet
}

type Store struct {
	svc Backend

	mu     sync.Mutex
	states map[string]*state
}

func NewStore(svc Backend) *Store {
	return &Store{svc: svc, states: make(map[string]*state)}
}

// Snapshot returns the current phase and cart mirror for a session.
func (s *Store) Snapshot(sid string) (Phase, *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sid]
	if !ok {
		return PhaseUninitialized, nil
	}
	return st.phase, st.cart
}

// Sync fetches the server cart for an authenticated session, populating
// the mirror on first use.
func (s *Store) Sync(ctx context.Context, sid string, creds api.Credentials) (*domain.Cart, error) {
	if creds == nil {
		return nil, nil
	}
	if err := s.loadFor(ctx, sid, creds); err != nil {
		return nil, err
	}
	_, cart := s.Snapshot(sid)
	return cart, nil
}

// AddToCart requires authentication: an anonymous caller gets a sign-in
// prompt and no network call is made. On success the mirror is replaced
// with the server cart and the cart panel opens.
func (s *Store) AddToCart(ctx context.Context, sid string, creds api.Credentials, productID, sizeID int64, quantity int) Result {
	if creds == nil {
		return Result{SignIn: true}
	}
	if quantity < 1 {
		quantity = 1
	}
	// A cart already at the unique-line cap rejects new lines locally;
	// adding more of an existing line still goes through.
	if _, cur := s.Snapshot(sid); cur != nil && len(cur.Items) >= MaxUniqueItems && !hasLine(cur, productID, sizeID) {
		return Result{Cart: cur, Message: "Your cart is full. Remove an item before adding another."}
	}
	res, release := s.begin(ctx, sid, creds)
	if res != nil {
		return *res
	}
	defer release()

	cart, err := s.svc.Add(ctx, creds, services.AddToCartRequest{
		ProductID:     productID,
		ProductSizeID: sizeID,
		Quantity:      quantity,
	})
	if err != nil {
		return s.fail(ctx, sid, creds, err)
	}
	s.replace(sid, cart)
	return Result{Cart: cart, OpenCart: true}
}

// UpdateQuantity rejects quantities below 1 locally; no request is sent.
func (s *Store) UpdateQuantity(ctx context.Context, sid string, creds api.Credentials, itemID int64, quantity int) Result {
	if creds == nil {
		return Result{SignIn: true}
	}
	if quantity < 1 {
		_, cart := s.Snapshot(sid)
		return Result{Cart: cart}
	}
	res, release := s.begin(ctx, sid, creds)
	if res != nil {
		return *res
	}
	defer release()

	cart, err := s.svc.UpdateItem(ctx, creds, itemID, quantity)
	if err != nil {
		return s.fail(ctx, sid, creds, err)
	}
	s.replace(sid, cart)
	return Result{Cart: cart}
}

func (s *Store) RemoveFromCart(ctx context.Context, sid string, creds api.Credentials, itemID int64) Result {
	if creds == nil {
		return Result{SignIn: true}
	}
	res, release := s.begin(ctx, sid, creds)
	if res != nil {
		return *res
	}
	defer release()

	cart, err := s.svc.RemoveItem(ctx, creds, itemID)
	if err != nil {
		return s.fail(ctx, sid, creds, err)
	}
	s.replace(sid, cart)
	return Result{Cart: cart}
}

// Clear nulls the mirror on success without waiting for a refetch.
func (s *Store) Clear(ctx context.Context, sid string, creds api.Credentials) Result {
	if creds == nil {
		return Result{SignIn: true}
	}
	res, release := s.begin(ctx, sid, creds)
	if res != nil {
		return *res
	}
	defer release()

	if err := s.svc.Clear(ctx, creds); err != nil {
		return s.fail(ctx, sid, creds, err)
	}
	s.mu.Lock()
	st := s.ensure(sid)
	st.cart = nil
	st.phase = PhaseEmpty
	s.mu.Unlock()
	return Result{}
}

// ClearLocal drops the mirror without a backend call, for the case
// where the server has already emptied the cart (order placement).
func (s *Store) ClearLocal(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensure(sid)
	st.cart = nil
	st.phase = PhaseEmpty
	st.needsSync = false
}

// Discard forgets a session's mirror entirely (sign-out). Nothing
// persists across authentication changes.
func (s *Store) Discard(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sid)
}

// begin acquires the per-session mutation slot. At most one mutation is
// in flight per session; a second caller is rejected, not queued. If a
// previous failure left the mirror unsynced, the sync happens here,
// before the new mutation may proceed.
func (s *Store) begin(ctx context.Context, sid string, creds api.Credentials) (*Result, func()) {
	s.mu.Lock()
	st := s.ensure(sid)
	if st.inFlight {
		s.mu.Unlock()
		return &Result{Message: "Another cart update is still in progress. Please try again."}, nil
	}
	st.inFlight = true
	needsSync := st.needsSync
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		st.inFlight = false
		s.mu.Unlock()
	}

	if needsSync {
		if err := s.loadFor(ctx, sid, creds); err != nil {
			release()
			return &Result{Message: api.Message(err)}, nil
		}
		s.mu.Lock()
		st.needsSync = false
		s.mu.Unlock()
	}
	return nil, release
}

// fail resynchronizes from the server before re-surfacing the message
// (self-healing rather than optimistic rollback).
func (s *Store) fail(ctx context.Context, sid string, creds api.Credentials, cause error) Result {
	if errors.Is(cause, api.ErrSessionExpired) {
		s.mu.Lock()
		st := s.ensure(sid)
		st.cart = nil
		st.phase = PhaseUninitialized
		s.mu.Unlock()
		return Result{SignIn: true, Message: api.Message(cause)}
	}

	if err := s.loadFor(ctx, sid, creds); err != nil {
		s.mu.Lock()
		s.ensure(sid).needsSync = true
		s.mu.Unlock()
	}
	_, cart := s.Snapshot(sid)
	return Result{Cart: cart, Message: api.Message(cause)}
}

func (s *Store) loadFor(ctx context.Context, sid string, creds api.Credentials) error {
	s.mu.Lock()
	st := s.ensure(sid)
	if st.phase == PhaseUninitialized {
		st.phase = PhaseLoading
	}
	s.mu.Unlock()

	cart, err := s.svc.Get(ctx, creds)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			s.mu.Lock()
			st.cart = nil
			st.phase = PhaseEmpty
			s.mu.Unlock()
			return nil
		}
		s.mu.Lock()
		if st.phase == PhaseLoading {
			st.phase = PhaseUninitialized
		}
		s.mu.Unlock()
		return err
	}
	s.replace(sid, cart)
	return nil
}

func (s *Store) replace(sid string, cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensure(sid)
	st.cart = cart
	st.needsSync = false
	if cart.Empty() {
		st.phase = PhaseEmpty
	} else {
		st.phase = PhaseReady
	}
}

func hasLine(c *domain.Cart, productID, sizeID int64) bool {
	for _, it := range c.Items {
		if it.ProductID == productID && it.SizeID == sizeID {
			return true
		}
	}
	return false
}

func (s *Store) ensure(sid string) *state {
	st, ok := s.states[sid]
	if !ok {
		st = &state{}
		s.states[sid] = st
	}
	return st
}
