package checkout_test

import (
	"context"
	"errors"
	"testing"

	"freshthreads/internal/api"
	"freshthreads/internal/cart"
	"freshthreads/internal/checkout"
	"freshthreads/internal/domain"
	"freshthreads/internal/services"
)

type testCreds struct{}

func (testCreds) Token() string         { return "tok" }
func (testCreds) RefreshToken() string  { return "ref" }
func (testCreds) SetToken(string) error { return nil }
func (testCreds) Invalidate() error     { return nil }

type fakePlacer struct {
	calls int
	last  services.PlaceOrderRequest
	order domain.Order
	err   error
}

func (f *fakePlacer) Place(ctx context.Context, creds api.Credentials, req services.PlaceOrderRequest) (domain.Order, error) {
	f.calls++
	f.last = req
	return f.order, f.err
}

type fakeLister struct {
	addrs []domain.Address
	err   error
}

func (f *fakeLister) List(ctx context.Context, creds api.Credentials) ([]domain.Address, error) {
	return f.addrs, f.err
}

// cartBackend serves a fixed cart for the store the flow syncs through.
type cartBackend struct {
	cart *domain.Cart
}

func (b *cartBackend) Get(ctx context.Context, creds api.Credentials) (*domain.Cart, error) {
	if b.cart == nil {
		return nil, &api.Error{Status: 404, Message: "no cart"}
	}
	return b.cart, nil
}

func (b *cartBackend) Add(ctx context.Context, creds api.Credentials, req services.AddToCartRequest) (*domain.Cart, error) {
	return b.cart, nil
}

func (b *cartBackend) UpdateItem(ctx context.Context, creds api.Credentials, itemID int64, quantity int) (*domain.Cart, error) {
	return b.cart, nil
}

func (b *cartBackend) RemoveItem(ctx context.Context, creds api.Credentials, itemID int64) (*domain.Cart, error) {
	return b.cart, nil
}

func (b *cartBackend) Clear(ctx context.Context, creds api.Credentials) error { return nil }

func twoShirtCart() *domain.Cart {
	return &domain.Cart{
		ID: 1,
		Items: []domain.CartItem{
			{ID: 1, ProductID: 10, SizeID: 100, Quantity: 2, Price: 20, Total: 40},
		},
		TotalItems: 2,
		Subtotal:   40,
		Tax:        4,
		Total:      44,
	}
}

func newFlow(c *domain.Cart, placer *fakePlacer, lister *fakeLister) (*checkout.Flow, *cart.Store) {
	carts := cart.NewStore(&cartBackend{cart: c})
	return checkout.NewFlow(carts, placer, lister, 10), carts
}

func TestTotals_AddFlatShippingToServerTotals(t *testing.T) {
	flow, _ := newFlow(nil, &fakePlacer{}, &fakeLister{})

	got := flow.Totals(twoShirtCart())
	want := checkout.Totals{Subtotal: 40, Shipping: 10, Tax: 4, Total: 54}
	if got != want {
		t.Fatalf("totals = %+v, want %+v", got, want)
	}
}

func TestTotals_NoCartYieldsZeroGrandTotal(t *testing.T) {
	flow, _ := newFlow(nil, &fakePlacer{}, &fakeLister{})

	got := flow.Totals(nil)
	if got.Total != 0 || got.Subtotal != 0 {
		t.Fatalf("totals = %+v", got)
	}
	if got.Shipping != 10 {
		t.Fatalf("shipping = %v", got.Shipping)
	}
}

func TestBegin_RequiresAuthentication(t *testing.T) {
	flow, _ := newFlow(twoShirtCart(), &fakePlacer{}, &fakeLister{})

	if _, err := flow.Begin(context.Background(), "s1", nil); !errors.Is(err, checkout.ErrNotAuthenticated) {
		t.Fatalf("err = %v", err)
	}
}

func TestBegin_AutoSelectsDefaultAddress(t *testing.T) {
	lister := &fakeLister{addrs: []domain.Address{
		{ID: 1, FullName: "A"},
		{ID: 2, FullName: "B", IsDefault: true},
	}}
	flow, _ := newFlow(twoShirtCart(), &fakePlacer{}, lister)

	v, err := flow.Begin(context.Background(), "s1", testCreds{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Selected == nil || v.Selected.ID != 2 {
		t.Fatalf("selected = %+v, want default address 2", v.Selected)
	}
}

func TestBegin_FallsBackToFirstAddress(t *testing.T) {
	lister := &fakeLister{addrs: []domain.Address{{ID: 5}, {ID: 6}}}
	flow, _ := newFlow(twoShirtCart(), &fakePlacer{}, lister)

	v, err := flow.Begin(context.Background(), "s1", testCreds{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Selected == nil || v.Selected.ID != 5 {
		t.Fatalf("selected = %+v, want first address", v.Selected)
	}
}

func TestBegin_EmptyCartRedirectsToProducts(t *testing.T) {
	flow, _ := newFlow(nil, &fakePlacer{}, &fakeLister{})

	v, err := flow.Begin(context.Background(), "s1", testCreds{})
	if err != nil {
		t.Fatal(err)
	}
	if !v.RedirectToProducts {
		t.Fatal("empty cart should redirect to products")
	}
}

func TestProceed_WithoutAddressNoOrderIsPlaced(t *testing.T) {
	placer := &fakePlacer{}
	flow, _ := newFlow(twoShirtCart(), placer, &fakeLister{})

	if _, err := flow.Begin(context.Background(), "s1", testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.Proceed("s1"); !errors.Is(err, checkout.ErrNoAddress) {
		t.Fatalf("err = %v, want ErrNoAddress", err)
	}
	if placer.calls != 0 {
		t.Fatalf("order placed %d times", placer.calls)
	}
}

func TestConfirm_PlacesCashOnDeliveryOrderWithShipping(t *testing.T) {
	placer := &fakePlacer{order: domain.Order{ID: 9, OrderNumber: "FT-1009", Status: domain.OrderPending}}
	lister := &fakeLister{addrs: []domain.Address{{ID: 3, IsDefault: true}}}
	flow, carts := newFlow(twoShirtCart(), placer, lister)
	sid := "s1"

	if _, err := flow.Begin(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.Proceed(sid); err != nil {
		t.Fatal(err)
	}

	v, err := flow.Confirm(context.Background(), sid, testCreds{})
	if err != nil {
		t.Fatal(err)
	}
	if placer.calls != 1 {
		t.Fatalf("place calls = %d", placer.calls)
	}
	req := placer.last
	if req.AddressID != 3 || req.PaymentMethod != domain.PaymentCashOnDelivery {
		t.Fatalf("request = %+v", req)
	}
	if req.Subtotal != 40 || req.Shipping != 10 || req.Tax != 4 || req.Total != 54 {
		t.Fatalf("request totals = %+v", req)
	}
	if len(req.Items) != 1 || req.Items[0].ProductID != 10 || req.Items[0].Quantity != 2 {
		t.Fatalf("request items = %+v", req.Items)
	}

	if v.Step != checkout.StepSuccess || !v.JustPlaced {
		t.Fatalf("view = %+v", v)
	}
	if v.Order == nil || v.Order.OrderNumber != "FT-1009" {
		t.Fatalf("order = %+v", v.Order)
	}
	// The success screen shows an empty cart without bouncing the user.
	if v.RedirectToProducts {
		t.Fatal("success view must not redirect to products")
	}
	if phase, _ := carts.Snapshot(sid); phase != cart.PhaseEmpty {
		t.Fatalf("cart phase after order = %v, want PhaseEmpty", phase)
	}
}

func TestConfirm_FailureStaysOnPaymentWithCartIntact(t *testing.T) {
	placer := &fakePlacer{err: &api.Error{Status: 422, Message: "Address no longer valid"}}
	lister := &fakeLister{addrs: []domain.Address{{ID: 3, IsDefault: true}}}
	flow, carts := newFlow(twoShirtCart(), placer, lister)
	sid := "s1"

	if _, err := flow.Begin(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.Proceed(sid); err != nil {
		t.Fatal(err)
	}

	v, err := flow.Confirm(context.Background(), sid, testCreds{})
	if err == nil {
		t.Fatal("expected placement failure")
	}
	if v.Step != checkout.StepPayment {
		t.Fatalf("step = %v, want StepPayment", v.Step)
	}
	if v.Cart.Empty() {
		t.Fatal("cart must stay intact after a failed placement")
	}
	if _, mirror := carts.Snapshot(sid); mirror.Empty() {
		t.Fatal("mirror must stay intact after a failed placement")
	}
}

func TestConfirm_EmptyCartIsRejected(t *testing.T) {
	placer := &fakePlacer{}
	lister := &fakeLister{addrs: []domain.Address{{ID: 3, IsDefault: true}}}
	flow, _ := newFlow(nil, placer, lister)
	sid := "s1"

	if _, err := flow.Begin(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.Proceed(sid); err != nil {
		t.Fatal(err)
	}
	if _, err := flow.Confirm(context.Background(), sid, testCreds{}); !errors.Is(err, checkout.ErrNothingToOrder) {
		t.Fatalf("err = %v, want ErrNothingToOrder", err)
	}
	if placer.calls != 0 {
		t.Fatalf("order placed %d times", placer.calls)
	}
}

func TestReloadAddresses_NewAddressIsImmediatelySelectable(t *testing.T) {
	lister := &fakeLister{addrs: []domain.Address{{ID: 1, IsDefault: true}}}
	flow, _ := newFlow(twoShirtCart(), &fakePlacer{}, lister)
	sid := "s1"

	if _, err := flow.Begin(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}

	// Saving through the add-address form appends a new address.
	lister.addrs = append(lister.addrs, domain.Address{ID: 2, FullName: "New"})
	if _, err := flow.ReloadAddresses(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.SelectAddress(sid, 2); err != nil {
		t.Fatal(err)
	}

	v, err := flow.Begin(context.Background(), sid, testCreds{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Selected == nil || v.Selected.ID != 2 {
		t.Fatalf("selected = %+v, want address 2", v.Selected)
	}
}

func TestSelectAddress_UnknownIDIsRejected(t *testing.T) {
	lister := &fakeLister{addrs: []domain.Address{{ID: 1}}}
	flow, _ := newFlow(twoShirtCart(), &fakePlacer{}, lister)
	sid := "s1"

	if _, err := flow.Begin(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.SelectAddress(sid, 99); !errors.Is(err, checkout.ErrUnknownAddress) {
		t.Fatalf("err = %v, want ErrUnknownAddress", err)
	}
}

func TestBack_ReturnsToAddressStep(t *testing.T) {
	lister := &fakeLister{addrs: []domain.Address{{ID: 1, IsDefault: true}}}
	flow, _ := newFlow(twoShirtCart(), &fakePlacer{}, lister)
	sid := "s1"

	if _, err := flow.Begin(context.Background(), sid, testCreds{}); err != nil {
		t.Fatal(err)
	}
	if err := flow.Proceed(sid); err != nil {
		t.Fatal(err)
	}
	flow.Back(sid)

	v, err := flow.Begin(context.Background(), sid, testCreds{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Step != checkout.StepAddress {
		t.Fatalf("step = %v, want StepAddress", v.Step)
	}
}
