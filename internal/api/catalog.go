package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Page selects one page of a listing. Pages are 1-based.
type Page struct {
	Number int
	Limit  int
}

// DefaultPageLimit is used when Page.Limit is unset.
const DefaultPageLimit = 12

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p Page) Offset() int {
	p = p.normalized()
	return (p.Number - 1) * p.Limit
}

// HasNext reports whether another page follows, given the backend's page count.
func (p Page) HasNext(totalPages int) bool {
	return p.normalized().Number < totalPages
}

func (p Page) query() map[string]string {
	p = p.normalized()
	return map[string]string{
		"page":  strconv.Itoa(p.Number),
		"limit": strconv.Itoa(p.Limit),
	}
}

// Ingredient is a purchasable market item.
type Ingredient struct {
	ID       string  `json:"_id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Unit     string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Stock    int     `json:"stock,omitempty" yaml:"stock,omitempty"`
	ImageURL string  `json:"image,omitempty" yaml:"image,omitempty"`
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	Ingredient Ingredient `json:"ingredient" yaml:"ingredient"`
	Quantity   string     `json:"quantity" yaml:"quantity"`
}

// Recipe is a published recipe.
type Recipe struct {
	ID          string             `json:"_id" yaml:"id"`
	Title       string             `json:"title" yaml:"title"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string             `json:"category,omitempty" yaml:"category,omitempty"`
	Country     string             `json:"country,omitempty" yaml:"country,omitempty"`
	PrepTime    int                `json:"prepTime,omitempty" yaml:"prepTime,omitempty"`
	Servings    int                `json:"servings,omitempty" yaml:"servings,omitempty"`
	Rating      float64            `json:"averageRating,omitempty" yaml:"rating,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Steps       []string           `json:"steps,omitempty" yaml:"steps,omitempty"`
	ImageURL    string             `json:"image,omitempty" yaml:"image,omitempty"`
}

// Named is a category or country entry.
type Named struct {
	ID   string `json:"_id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Review is a user's rating of a recipe.
type Review struct {
	ID        string `json:"_id" yaml:"id"`
	Rating    int    `json:"rating" yaml:"rating"`
	Comment   string `json:"comment" yaml:"comment"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// RecipeFilter narrows a recipe listing. Empty fields are not sent.
type RecipeFilter struct {
	Category string
	Country  string
	Search   string
}

// RecipeList is one page of recipes.
type RecipeList struct {
	Recipes      []Recipe `json:"recipes" yaml:"recipes"`
	TotalPages   int      `json:"totalPages" yaml:"totalPages"`
	CurrentPage  int      `json:"currentPage" yaml:"currentPage"`
	TotalRecipes int      `json:"totalRecipes" yaml:"totalRecipes"`
}

// IngredientList is one page of market ingredients.
type IngredientList struct {
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	TotalPages  int          `json:"totalPages" yaml:"totalPages"`
	CurrentPage int          `json:"currentPage" yaml:"currentPage"`
}

// ListRecipes returns one page of recipes.
func (c *Client) ListRecipes(ctx context.Context, page Page, filter RecipeFilter) (*RecipeList, error) {
	q := page.query()
	q["category"] = filter.Category
	q["country"] = filter.Country
	q["search"] = filter.Search

	var resp RecipeList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/recipe/get-all-recipes", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecipe returns one recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var resp struct {
		Recipe Recipe `json:"recipe"`
	}
	r := request{method: http.MethodGet, path: fmt.Sprintf("/recipe/get-recipe/%s", url.PathEscape(id))}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Recipe, nil
}

// ListIngredients returns one page of market ingredients.
func (c *Client) ListIngredients(ctx context.Context, page Page, search string) (*IngredientList, error) {
	q := page.query()
	q["search"] = search

	var resp IngredientList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/ingredient/get-all-ingredients", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCategories returns all recipe categories.
func (c *Client) ListCategories(ctx context.Context) ([]Named, error) {
	var resp struct {
		Categories []Named `json:"categories"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/category/get-all-categories"}, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ListCountries returns all recipe countries.
func (c *Client) ListCountries(ctx context.Context) ([]Named, error) {
	var resp struct {
		Countries []Named `json:"countries"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/country/get-all-countries"}, &resp); err != nil {
		return nil, err
	}
	return resp.Countries, nil
}

// ListReviews returns the reviews of a recipe.
func (c *Client) ListReviews(ctx context.Context, recipeID string) ([]Review, error) {
	var resp struct {
		Reviews []Review `json:"reviews"`
	}
	r := request{method: http.MethodGet, path: fmt.Sprintf("/review/get-recipe-reviews/%s", url.PathEscape(recipeID))}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

// AddReviewRequest is the body of a new review.
type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview posts a review on a recipe.
func (c *Client) AddReview(ctx context.Context, accessToken, recipeID string, review AddReviewRequest) (*MessageResponse, error) {
	var resp MessageResponse
	r := request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/review/add-review/%s", url.PathEscape(recipeID)),
		body:   review,
	}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AISearchResponse carries recipes suggested for a free-text prompt.
type AISearchResponse struct {
	Message string   `json:"message" yaml:"message"`
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
}

// SearchRecipesAI asks the backend's assistant for matching recipes.
func (c *Client) SearchRecipesAI(ctx context.Context, prompt string) (*AISearchResponse, error) {
	var resp AISearchResponse
	r := request{
		method: http.MethodPost,
		path:   "/ai/search-recipes",
		body:   map[string]string{"prompt": prompt},
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
