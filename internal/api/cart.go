package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CartItem is one ingredient line in the cart.
type CartItem struct {
	Ingredient Ingredient `json:"ingredient" yaml:"ingredient"`
	Quantity   int        `json:"quantity" yaml:"quantity"`
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() float64 {
	return i.Ingredient.Price * float64(i.Quantity)
}

// Cart is the caller's shopping cart.
type Cart struct {
	Items      []CartItem `json:"items" yaml:"items"`
	TotalPrice float64    `json:"totalPrice" yaml:"totalPrice"`
}

// Total sums item subtotals. Used when the backend omits totalPrice.
func (c Cart) Total() float64 {
	if c.TotalPrice > 0 {
		return c.TotalPrice
	}
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

type cartResponse struct {
	Message string `json:"message"`
	Cart    Cart   `json:"cart"`
}

// GetCart returns the caller's cart.
func (c *Client) GetCart(ctx context.Context, accessToken string) (*Cart, error) {
	var resp cartResponse
	r := request{method: http.MethodGet, path: "/cart/get-cart"}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// AddToCart adds quantity units of an ingredient.
func (c *Client) AddToCart(ctx context.Context, accessToken, ingredientID string, quantity int) (*Cart, error) {
	var resp cartResponse
	r := request{
		method: http.MethodPost,
		path:   "/cart/add-to-cart",
		body: map[string]interface{}{
			"ingredientId": ingredientID,
			"quantity":     quantity,
		},
	}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// RemoveFromCart drops an ingredient line from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, accessToken, ingredientID string) (*Cart, error) {
	var resp cartResponse
	r := request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/cart/remove-from-cart/%s", url.PathEscape(ingredientID)),
	}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context, accessToken string) (*MessageResponse, error) {
	var resp MessageResponse
	r := request{method: http.MethodDelete, path: "/cart/clear-cart"}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
