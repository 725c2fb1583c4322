package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciplore/reciplore/internal/api"
	"github.com/reciplore/reciplore/internal/api/apitest"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name       string
		page       api.Page
		total      int
		wantOffset int
		wantNext   bool
	}{
		{"first page", api.Page{Number: 1, Limit: 10}, 3, 0, true},
		{"middle page", api.Page{Number: 2, Limit: 10}, 3, 10, true},
		{"last page", api.Page{Number: 3, Limit: 10}, 3, 20, false},
		{"defaults", api.Page{}, 1, 0, false},
		{"negative number", api.Page{Number: -4, Limit: 5}, 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOffset, tt.page.Offset())
			assert.Equal(t, tt.wantNext, tt.page.HasNext(tt.total))
		})
	}
}

func TestListRecipes(t *testing.T) {
	client, srv := newClient(t)
	srv.Respond(apitest.RouteListRecipes, http.StatusOK, map[string]interface{}{
		"recipes":      []map[string]interface{}{{"_id": "r1", "title": "Koshari"}},
		"totalPages":   4,
		"currentPage":  2,
		"totalRecipes": 40,
	})

	list, err := client.ListRecipes(context.Background(), api.Page{Number: 2}, api.RecipeFilter{Country: "EG"})
	require.NoError(t, err)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Koshari", list.Recipes[0].Title)
	assert.Equal(t, 4, list.TotalPages)

	req, _ := srv.LastRequest(apitest.RouteListRecipes)
	assert.Equal(t, "2", req.Query["page"])
	assert.Equal(t, "12", req.Query["limit"])
	assert.Equal(t, "EG", req.Query["country"])
	_, hasSearch := req.Query["search"]
	assert.False(t, hasSearch, "empty filters are not sent")
}

func TestGetRecipeAndReviews(t *testing.T) {
	client, srv := newClient(t)
	srv.Respond(apitest.RouteGetRecipe, http.StatusOK, map[string]interface{}{
		"recipe": map[string]interface{}{"_id": "r1", "title": "Molokhia", "steps": []string{"boil", "serve"}},
	})
	srv.Respond(apitest.RouteListReviews, http.StatusOK, map[string]interface{}{
		"reviews": []map[string]interface{}{{"_id": "v1", "rating": 5, "comment": "great"}},
	})
	srv.Respond(apitest.RouteAddReview, http.StatusCreated, apitest.Message("review added"))

	recipe, err := client.GetRecipe(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"boil", "serve"}, recipe.Steps)

	reviews, err := client.ListReviews(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)

	resp, err := client.AddReview(context.Background(), "tok", "r1", api.AddReviewRequest{Rating: 4, Comment: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "review added", resp.Message)

	req, _ := srv.LastRequest(apitest.RouteAddReview)
	assert.Equal(t, "r1", req.Params["recipeId"])
	assert.JSONEq(t, `{"rating":4,"comment":"nice"}`, string(req.Body))
}

func TestMarketListings(t *testing.T) {
	client, srv := newClient(t)
	srv.Respond(apitest.RouteListIngredients, http.StatusOK, map[string]interface{}{
		"ingredients": []map[string]interface{}{{"_id": "i1", "name": "lentils", "price": 2.5}},
		"totalPages":  1,
		"currentPage": 1,
	})
	srv.Respond(apitest.RouteListCategories, http.StatusOK, map[string]interface{}{
		"categories": []map[string]string{{"_id": "c1", "name": "Dinner"}},
	})
	srv.Respond(apitest.RouteListCountries, http.StatusOK, map[string]interface{}{
		"countries": []map[string]string{{"_id": "k1", "name": "Egypt"}},
	})

	ingredients, err := client.ListIngredients(context.Background(), api.Page{Limit: 50}, "len")
	require.NoError(t, err)
	assert.Equal(t, 2.5, ingredients.Ingredients[0].Price)

	req, _ := srv.LastRequest(apitest.RouteListIngredients)
	assert.Equal(t, "len", req.Query["search"])
	assert.Equal(t, "50", req.Query["limit"])

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dinner", categories[0].Name)

	countries, err := client.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Egypt", countries[0].Name)
}

func TestCartAndOrders(t *testing.T) {
	client, srv := newClient(t)
	cart := map[string]interface{}{
		"cart": map[string]interface{}{
			"items": []map[string]interface{}{
				{"ingredient": map[string]interface{}{"_id": "i1", "price": 2.0}, "quantity": 3},
				{"ingredient": map[string]interface{}{"_id": "i2", "price": 1.5}, "quantity": 2},
			},
		},
	}
	srv.Respond(apitest.RouteGetCart, http.StatusOK, cart)
	srv.Respond(apitest.RouteAddToCart, http.StatusOK, cart)
	srv.Respond(apitest.RouteRemoveFromCart, http.StatusOK, cart)
	srv.Respond(apitest.RouteClearCart, http.StatusOK, apitest.Message("cart cleared"))
	srv.Respond(apitest.RouteCreateOrder, http.StatusCreated, map[string]interface{}{
		"message": "order placed",
		"order":   map[string]interface{}{"_id": "o1", "status": "pending", "totalPrice": 9.0},
	})
	srv.Respond(apitest.RouteListOrders, http.StatusOK, map[string]interface{}{
		"orders": []map[string]interface{}{{"_id": "o1", "status": "pending"}},
	})
	srv.Respond(apitest.RouteCancelOrder, http.StatusOK, map[string]interface{}{
		"order": map[string]interface{}{"_id": "o1", "status": "cancelled"},
	})

	ctx := context.Background()

	got, err := client.GetCart(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Total())

	_, err = client.AddToCart(ctx, "tok", "i1", 3)
	require.NoError(t, err)
	req, _ := srv.LastRequest(apitest.RouteAddToCart)
	assert.JSONEq(t, `{"ingredientId":"i1","quantity":3}`, string(req.Body))

	_, err = client.RemoveFromCart(ctx, "tok", "i2")
	require.NoError(t, err)
	req, _ = srv.LastRequest(apitest.RouteRemoveFromCart)
	assert.Equal(t, "i2", req.Params["ingredientId"])

	_, err = client.ClearCart(ctx, "tok")
	require.NoError(t, err)

	order, err := client.CreateOrder(ctx, "tok", api.CreateOrderRequest{AddressID: "a1", PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	orders, err := client.ListOrders(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	cancelled, err := client.CancelOrder(ctx, "tok", "o1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestSearchRecipesAI(t *testing.T) {
	client, srv := newClient(t)
	srv.Respond(apitest.RouteAISearch, http.StatusOK, map[string]interface{}{
		"message": "found 1",
		"recipes": []map[string]string{{"_id": "r9", "title": "Ful"}},
	})

	resp, err := client.SearchRecipesAI(context.Background(), "something with beans")
	require.NoError(t, err)
	assert.Equal(t, "Ful", resp.Recipes[0].Title)

	req, _ := srv.LastRequest(apitest.RouteAISearch)
	assert.JSONEq(t, `{"prompt":"something with beans"}`, string(req.Body))
}
