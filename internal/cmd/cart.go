package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reciplore/reciplore/internal/api"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/ux"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your shopping cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cart *api.Cart
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				cart, err = a.client.GetCart(cmd.Context(), token)
				return err
			})
			if err != nil {
				return err
			}
			return a.render(cartDocument(cart))
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <ingredient-id>",
		Short: "Add an ingredient to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if quantity < 1 {
				return apperrors.NewInvalidInputError("quantity must be at least 1")
			}
			var cart *api.Cart
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				cart, err = a.client.AddToCart(cmd.Context(), token, args[0], quantity)
				return err
			})
			if err != nil {
				return err
			}
			return a.render(cartDocument(cart))
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")

	remove := &cobra.Command{
		Use:   "remove <ingredient-id>",
		Short: "Remove an ingredient from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cart *api.Cart
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				cart, err = a.client.RemoveFromCart(cmd.Context(), token, args[0])
				return err
			})
			if err != nil {
				return err
			}
			return a.render(cartDocument(cart))
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := confirm(yes, "Remove everything from your cart?")
			if err != nil || !ok {
				return err
			}
			var resp *api.MessageResponse
			err = a.withToken(cmd.Context(), func(token string) error {
				var err error
				resp, err = a.client.ClearCart(cmd.Context(), token)
				return err
			})
			if err != nil {
				return err
			}
			return a.render(messageDocument(resp.Message, "Cart cleared."))
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(show, add, remove, clearCmd)
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Place and track orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var orders []api.Order
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				orders, err = a.client.ListOrders(cmd.Context(), token)
				return err
			})
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: orders,
				Text: func(w io.Writer, noColor bool) error {
					rows := make([][]string, 0, len(orders))
					for _, o := range orders {
						rows = append(rows, []string{o.ID, o.Status, strconv.Itoa(len(o.Items)), money(o.TotalPrice), o.CreatedAt})
					}
					return ux.WriteTable(w, noColor, []string{"ID", "STATUS", "ITEMS", "TOTAL", "PLACED"}, rows, "No orders yet.")
				},
			})
		},
	}

	var req api.CreateOrderRequest
	create := &cobra.Command{
		Use:     "create",
		Short:   "Check out the cart",
		Example: `  reciplore orders create --address 66a0f1 --payment cash`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.AddressID == "" {
				addr, err := defaultAddress(cmd, a)
				if err != nil {
					return err
				}
				req.AddressID = addr
			}

			var order *api.Order
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				order, err = a.client.CreateOrder(cmd.Context(), token, req)
				return err
			})
			if err != nil {
				return err
			}
			return a.render(orderDocument(order, "Order placed"))
		},
	}
	create.Flags().StringVar(&req.AddressID, "address", "", "delivery address id, defaults to your default address")
	create.Flags().StringVar(&req.PaymentMethod, "payment", "cash", "payment method")

	cancel := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var order *api.Order
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				order, err = a.client.CancelOrder(cmd.Context(), token, args[0])
				return err
			})
			if err != nil {
				return err
			}
			return a.render(orderDocument(order, "Order cancelled"))
		},
	}

	cmd.AddCommand(list, create, cancel)
	return cmd
}

// defaultAddress picks the address flagged as default, or the only one.
func defaultAddress(cmd *cobra.Command, a *app) (string, error) {
	if err := a.requireSession(cmd.Context()); err != nil {
		return "", err
	}
	addrs := a.session.User().Addresses
	for _, addr := range addrs {
		if addr.IsDefault {
			return addr.ID, nil
		}
	}
	if len(addrs) == 1 {
		return addrs[0].ID, nil
	}
	return "", apperrors.NewInvalidInputError("choose a delivery address with --address").
		WithSuggestion("List your addresses: reciplore address list")
}

func cartDocument(cart *api.Cart) ux.Document {
	return ux.Document{
		Data: cart,
		Text: func(w io.Writer, noColor bool) error {
			rows := make([][]string, 0, len(cart.Items))
			for _, item := range cart.Items {
				rows = append(rows, []string{
					item.Ingredient.ID,
					item.Ingredient.Name,
					strconv.Itoa(item.Quantity),
					money(item.Ingredient.Price),
					money(item.Subtotal()),
				})
			}
			if err := ux.WriteTable(w, noColor, []string{"ID", "INGREDIENT", "QTY", "PRICE", "SUBTOTAL"}, rows, "Your cart is empty."); err != nil {
				return err
			}
			if len(cart.Items) == 0 {
				return nil
			}
			_, err := fmt.Fprintf(w, "Total: %s\n", money(cart.Total()))
			return err
		},
	}
}

func orderDocument(o *api.Order, headline string) ux.Document {
	return ux.Document{
		Data: o,
		Text: func(w io.Writer, noColor bool) error {
			fmt.Fprintf(w, "%s.\n", headline)
			return ux.WriteFields(w, noColor, []ux.Field{
				{Key: "Order", Value: o.ID},
				{Key: "Status", Value: o.Status},
				{Key: "Items", Value: strconv.Itoa(len(o.Items))},
				{Key: "Total", Value: money(o.TotalPrice)},
				{Key: "Payment", Value: o.PaymentMethod},
			})
		},
	}
}
