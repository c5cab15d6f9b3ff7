package handlers

import (
	"freshthreads/internal/api"
	"freshthreads/internal/auth"
	"freshthreads/internal/cart"
	"freshthreads/internal/checkout"
	"freshthreads/internal/config"
	"freshthreads/internal/services"
	"freshthreads/internal/session"
)

type Deps struct {
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	OrderHandler    *OrderHandler
	AddressHandler  *AddressHandler
	AccountHandler  *AccountHandler
	AuthHandler     *AuthHandler

	Carts *cart.Store
	Flow  *checkout.Flow
}

func NewDeps(cfg config.Config, apiClient *api.Client, sessions *session.Manager) *Deps {
	productSvc := services.NewProductService(apiClient)
	categorySvc := services.NewCategoryService(apiClient)
	cartSvc := services.NewCartService(apiClient)
	orderSvc := services.NewOrderService(apiClient)
	addressSvc := services.NewAddressService(apiClient)
	authSvc := services.NewAuthService(apiClient, sessions)

	carts := cart.NewStore(cartSvc)
	flow := checkout.NewFlow(carts, orderSvc, addressSvc, cfg.ShippingFee)
	oauth := auth.New(cfg, apiClient, sessions)

	return &Deps{
		CategoryHandler: &CategoryHandler{Categories: categorySvc, Products: productSvc},
		ProductHandler:  &ProductHandler{Products: productSvc, Categories: categorySvc},
		CartHandler:     &CartHandler{Carts: carts},
		CheckoutHandler: &CheckoutHandler{Flow: flow},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		AddressHandler:  &AddressHandler{Addresses: addressSvc, Flow: flow},
		AccountHandler:  &AccountHandler{Orders: orderSvc},
		AuthHandler:     &AuthHandler{OAuth: oauth, Auth: authSvc, Carts: carts, Flow: flow},
		Carts:           carts,
		Flow:            flow,
	}
}
