package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Order is a placed order.
type Order struct {
	ID            string     `json:"_id" yaml:"id"`
	Items         []CartItem `json:"items" yaml:"items"`
	TotalPrice    float64    `json:"totalPrice" yaml:"totalPrice"`
	Status        string     `json:"status" yaml:"status"`
	PaymentMethod string     `json:"paymentMethod" yaml:"paymentMethod"`
	Address       *Address   `json:"address,omitempty" yaml:"address,omitempty"`
	CreatedAt     string     `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// CreateOrderRequest checks out the current cart.
type CreateOrderRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

type orderResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

// CreateOrder places an order from the cart.
func (c *Client) CreateOrder(ctx context.Context, accessToken string, req CreateOrderRequest) (*Order, error) {
	var resp orderResponse
	r := request{method: http.MethodPost, path: "/order/create-order", body: req}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// ListOrders returns the caller's orders.
func (c *Client) ListOrders(ctx context.Context, accessToken string) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	r := request{method: http.MethodGet, path: "/order/get-user-orders"}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// CancelOrder cancels a pending order.
func (c *Client) CancelOrder(ctx context.Context, accessToken, orderID string) (*Order, error) {
	var resp orderResponse
	r := request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/order/cancel-order/%s", url.PathEscape(orderID)),
	}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}
