// Package checkout drives the multi-step purchase flow: load
// prerequisites, pick a delivery address, confirm payment, place the
// order. Totals come from the server-computed cart; the only client-side
// arithmetic is the flat shipping fee added on top.
package checkout

import (
	"context"
	"errors"
	"sync"

	"freshthreads/internal/api"
	"freshthreads/internal/cart"
	"freshthreads/internal/domain"
	"freshthreads/internal/services"
)

type Step int

const (
	StepAddress Step = iota
	StepPayment
	StepSuccess
)

var (
	ErrNoAddress        = errors.New("no delivery address selected")
	ErrOrderInFlight    = errors.New("order placement already in progress")
	ErrUnknownAddress   = errors.New("address not in the loaded list")
	ErrNothingToOrder   = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("sign in to check out")
)

type OrderPlacer interface {
	Place(ctx context.Context, creds api.Credentials, req services.PlaceOrderRequest) (domain.Order, error)
}

type AddressLister interface {
	List(ctx context.Context, creds api.Credentials) ([]domain.Address, error)
}

type Totals struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Total    float64
}

// View is what the checkout pages render.
type View struct {
	Step       Step
	Cart       *domain.Cart
	Addresses  []domain.Address
	Selected   *domain.Address
	Totals     Totals
	JustPlaced bool
	Order      *domain.Order

	// RedirectToProducts is set when the cart is empty and no order was
	// just placed; the empty cart after a successful order must not
	// bounce the user off the success screen.
	RedirectToProducts bool
}

type state struct {
	step       Step
	addresses  []domain.Address
	selectedID int64
	justPlaced bool
	order      *domain.Order
	placing    bool
}

type Flow struct {
	carts     *cart.Store
	orders    OrderPlacer
	addresses AddressLister
	shipping  float64

	mu     sync.Mutex
	states map[string]*state
}

func NewFlow(carts *cart.Store, orders OrderPlacer, addresses AddressLister, shippingFee float64) *Flow {
	return &Flow{
		carts:     carts,
		orders:    orders,
		addresses: addresses,
		shipping:  shippingFee,
		states:    make(map[string]*state),
	}
}

// Totals adds the flat shipping fee to the server-computed cart totals.
// An absent or zero-total cart yields a zero grand total.
func (f *Flow) Totals(c *domain.Cart) Totals {
	t := Totals{Shipping: f.shipping}
	if c == nil {
		return t
	}
	t.Subtotal = c.Subtotal
	t.Tax = c.Tax
	if c.Total > 0 {
		t.Total = c.Total + f.shipping
	}
	return t
}

// Begin loads the checkout prerequisites for a session: the cart mirror
// and the address list, with the default (else first) address
// auto-selected. Unauthenticated callers get ErrNotAuthenticated.
func (f *Flow) Begin(ctx context.Context, sid string, creds api.Credentials) (View, error) {
	if creds == nil {
		return View{}, ErrNotAuthenticated
	}

	cartData, err := f.carts.Sync(ctx, sid, creds)
	if err != nil {
		return View{}, err
	}

	addrs, err := f.addresses.List(ctx, creds)
	if err != nil {
		return View{}, err
	}

	f.mu.Lock()
	st := f.ensure(sid)
	st.addresses = addrs
	if st.selectedID == 0 || findAddress(addrs, st.selectedID) == nil {
		st.selectedID = autoSelect(addrs)
	}
	f.mu.Unlock()

	return f.view(sid, cartData), nil
}

// SelectAddress picks one of the loaded addresses.
func (f *Flow) SelectAddress(sid string, addressID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.ensure(sid)
	if findAddress(st.addresses, addressID) == nil {
		return ErrUnknownAddress
	}
	st.selectedID = addressID
	return nil
}

// ReloadAddresses refetches the address list, keeping the selection if
// it still exists. Used after the add-address modal saves, so a new
// address is selectable without a full flow restart.
func (f *Flow) ReloadAddresses(ctx context.Context, sid string, creds api.Credentials) ([]domain.Address, error) {
	addrs, err := f.addresses.List(ctx, creds)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	st := f.ensure(sid)
	st.addresses = addrs
	if findAddress(addrs, st.selectedID) == nil {
		st.selectedID = autoSelect(addrs)
	}
	f.mu.Unlock()
	return addrs, nil
}

// Proceed moves from address selection to payment confirmation. With no
// address selected it returns ErrNoAddress and no request is made.
func (f *Flow) Proceed(sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.ensure(sid)
	if st.selectedID == 0 {
		return ErrNoAddress
	}
	st.step = StepPayment
	return nil
}

// Back returns from the payment screen to address selection.
func (f *Flow) Back(sid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.ensure(sid)
	if st.step == StepPayment {
		st.step = StepAddress
	}
}

// Confirm places the order (cash on delivery). There is no automatic
// retry: a failure keeps the flow on the payment step with the cart
// intact, and the user must re-confirm explicitly.
func (f *Flow) Confirm(ctx context.Context, sid string, creds api.Credentials) (View, error) {
	if creds == nil {
		return View{}, ErrNotAuthenticated
	}

	f.mu.Lock()
	st := f.ensure(sid)
	if st.placing {
		f.mu.Unlock()
		return f.view(sid, f.snapshotCart(sid)), ErrOrderInFlight
	}
	if st.selectedID == 0 {
		f.mu.Unlock()
		return f.view(sid, f.snapshotCart(sid)), ErrNoAddress
	}
	addressID := st.selectedID
	st.placing = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		st.placing = false
		f.mu.Unlock()
	}()

	cartData := f.snapshotCart(sid)
	if cartData.Empty() {
		return f.view(sid, cartData), ErrNothingToOrder
	}

	totals := f.Totals(cartData)
	req := services.PlaceOrderRequest{
		AddressID:     addressID,
		PaymentMethod: domain.PaymentCashOnDelivery,
		Items:         snapshotItems(cartData),
		Subtotal:      totals.Subtotal,
		Shipping:      totals.Shipping,
		Tax:           totals.Tax,
		Total:         totals.Total,
	}

	order, err := f.orders.Place(ctx, creds, req)
	if err != nil {
		// Payment screen stays up, cart stays intact.
		return f.view(sid, cartData), err
	}

	// The server cleared the cart on success; drop the mirror so the UI
	// agrees without an extra fetch.
	f.carts.ClearLocal(sid)

	f.mu.Lock()
	st.order = &order
	st.justPlaced = true
	st.step = StepSuccess
	f.mu.Unlock()

	return f.view(sid, nil), nil
}

// Reset forgets the per-session flow state (navigation away, sign-out).
func (f *Flow) Reset(sid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, sid)
}

func (f *Flow) view(sid string, cartData *domain.Cart) View {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.ensure(sid)
	v := View{
		Step:       st.step,
		Cart:       cartData,
		Addresses:  st.addresses,
		Selected:   findAddress(st.addresses, st.selectedID),
		JustPlaced: st.justPlaced,
		Order:      st.order,
	}
	v.Totals = f.Totals(cartData)
	if cartData.Empty() && !st.justPlaced {
		v.RedirectToProducts = true
	}
	return v
}

func (f *Flow) snapshotCart(sid string) *domain.Cart {
	_, c := f.carts.Snapshot(sid)
	return c
}

func (f *Flow) ensure(sid string) *state {
	st, ok := f.states[sid]
	if !ok {
		st = &state{}
		f.states[sid] = st
	}
	return st
}

func autoSelect(addrs []domain.Address) int64 {
	for _, a := range addrs {
		if a.IsDefault {
			return a.ID
		}
	}
	if len(addrs) > 0 {
		return addrs[0].ID
	}
	return 0
}

func findAddress(addrs []domain.Address, id int64) *domain.Address {
	if id == 0 {
		return nil
	}
	for i := range addrs {
		if addrs[i].ID == id {
			return &addrs[i]
		}
	}
	return nil
}

func snapshotItems(c *domain.Cart) []services.OrderItemRequest {
	items := make([]services.OrderItemRequest, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, services.OrderItemRequest{
			ProductID:     it.ProductID,
			ProductSizeID: it.SizeID,
			Quantity:      it.Quantity,
			Price:         it.Price,
		})
	}
	return items
}
