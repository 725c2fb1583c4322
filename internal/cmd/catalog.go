package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reciplore/reciplore/internal/api"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/ux"
)

func addPageFlags(cmd *cobra.Command, page *api.Page) {
	cmd.Flags().IntVar(&page.Number, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&page.Limit, "limit", api.DefaultPageLimit, "items per page")
}

func newRecipesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "Browse recipes and reviews",
	}
	cmd.AddCommand(newRecipesListCmd(a), newRecipesShowCmd(a), newReviewsCmd(a), newReviewCmd(a))
	return cmd
}

func newRecipesListCmd(a *app) *cobra.Command {
	var (
		page   api.Page
		filter api.RecipeFilter
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List recipes",
		Example: `  reciplore recipes list --category Dessert --country Egypt --page 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.ListRecipes(cmd.Context(), page, filter)
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: list,
				Text: func(w io.Writer, noColor bool) error {
					if err := writeRecipes(w, noColor, list.Recipes); err != nil {
						return err
					}
					return writePageFooter(w, page, list.CurrentPage, list.TotalPages)
				},
			})
		},
	}

	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&filter.Category, "category", "", "only recipes in this category")
	cmd.Flags().StringVar(&filter.Country, "country", "", "only recipes from this country")
	cmd.Flags().StringVar(&filter.Search, "search", "", "match title text")
	return cmd
}

func newRecipesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe with its ingredients and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := a.client.GetRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: recipe,
				Text: func(w io.Writer, noColor bool) error {
					return writeRecipe(w, noColor, recipe)
				},
			})
		},
	}
}

func newReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <recipe-id>",
		Short: "List the reviews of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := a.client.ListReviews(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: reviews,
				Text: func(w io.Writer, noColor bool) error {
					rows := make([][]string, 0, len(reviews))
					for _, r := range reviews {
						rows = append(rows, []string{stars(r.Rating), r.Username, r.Comment})
					}
					return ux.WriteTable(w, noColor, []string{"RATING", "BY", "COMMENT"}, rows, "No reviews yet.")
				},
			})
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	var review api.AddReviewRequest

	cmd := &cobra.Command{
		Use:     "review <recipe-id>",
		Short:   "Rate a recipe",
		Example: `  reciplore recipes review 65f1c0 --rating 5 --comment "Just like my grandmother's"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if review.Rating < 1 || review.Rating > 5 {
				return apperrors.NewInvalidInputError("rating must be between 1 and 5")
			}

			var resp *api.MessageResponse
			err := a.withToken(cmd.Context(), func(token string) error {
				var err error
				resp, err = a.client.AddReview(cmd.Context(), token, args[0], review)
				return err
			})
			if err != nil {
				return err
			}
			return a.render(messageDocument(resp.Message, "Review added."))
		},
	}

	cmd.Flags().IntVar(&review.Rating, "rating", 0, "stars from 1 to 5")
	cmd.Flags().StringVar(&review.Comment, "comment", "", "review text")
	return cmd
}

func newMarketCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Browse ingredients, categories and countries",
	}

	var (
		page   api.Page
		search string
	)
	ingredients := &cobra.Command{
		Use:   "ingredients",
		Short: "List ingredients for sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.ListIngredients(cmd.Context(), page, search)
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: list,
				Text: func(w io.Writer, noColor bool) error {
					rows := make([][]string, 0, len(list.Ingredients))
					for _, ing := range list.Ingredients {
						rows = append(rows, []string{ing.ID, ing.Name, money(ing.Price), ing.Unit, strconv.Itoa(ing.Stock)})
					}
					if err := ux.WriteTable(w, noColor, []string{"ID", "NAME", "PRICE", "UNIT", "STOCK"}, rows, "No ingredients found."); err != nil {
						return err
					}
					return writePageFooter(w, page, list.CurrentPage, list.TotalPages)
				},
			})
		},
	}
	addPageFlags(ingredients, &page)
	ingredients.Flags().StringVar(&search, "search", "", "match ingredient name")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List recipe categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(namedDocument(items, "No categories."))
		},
	}

	countries := &cobra.Command{
		Use:   "countries",
		Short: "List recipe countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client.ListCountries(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(namedDocument(items, "No countries."))
		},
	}

	cmd.AddCommand(ingredients, categories, countries)
	return cmd
}

func newAICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Ask the recipe assistant",
	}

	search := &cobra.Command{
		Use:     "search <prompt...>",
		Short:   "Find recipes from a free-text description",
		Example: `  reciplore ai search something vegetarian with lentils under 30 minutes`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			resp, err := a.client.SearchRecipesAI(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: resp,
				Text: func(w io.Writer, noColor bool) error {
					if resp.Message != "" {
						fmt.Fprintln(w, resp.Message)
					}
					return writeRecipes(w, noColor, resp.Recipes)
				},
			})
		},
	}

	cmd.AddCommand(search)
	return cmd
}

func writeRecipes(w io.Writer, noColor bool, recipes []api.Recipe) error {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{r.ID, r.Title, r.Category, r.Country, minutes(r.PrepTime), rating(r.Rating)})
	}
	return ux.WriteTable(w, noColor, []string{"ID", "TITLE", "CATEGORY", "COUNTRY", "PREP", "RATING"}, rows, "No recipes found.")
}

func writeRecipe(w io.Writer, noColor bool, r *api.Recipe) error {
	err := ux.WriteFields(w, noColor, []ux.Field{
		{Key: "Title", Value: r.Title},
		{Key: "Category", Value: r.Category},
		{Key: "Country", Value: r.Country},
		{Key: "Prep time", Value: minutes(r.PrepTime)},
		{Key: "Servings", Value: count(r.Servings)},
		{Key: "Rating", Value: rating(r.Rating)},
	})
	if err != nil {
		return err
	}
	if r.Description != "" {
		fmt.Fprintf(w, "\n%s\n", r.Description)
	}

	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(w, "  - %s %s\n", ing.Quantity, ing.Ingredient.Name)
		}
	}
	if len(r.Steps) > 0 {
		fmt.Fprintln(w, "\nSteps:")
		for i, step := range r.Steps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	return nil
}

func writePageFooter(w io.Writer, page api.Page, current, total int) error {
	if total <= 1 {
		return nil
	}
	if current == 0 {
		current = page.Number
	}
	footer := fmt.Sprintf("Page %d of %d", current, total)
	if page.HasNext(total) {
		footer += fmt.Sprintf(", next: --page %d", current+1)
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

func namedDocument(items []api.Named, empty string) ux.Document {
	return ux.Document{
		Data: items,
		Text: func(w io.Writer, noColor bool) error {
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, []string{it.ID, it.Name})
			}
			return ux.WriteTable(w, noColor, []string{"ID", "NAME"}, rows, empty)
		},
	}
}

func messageDocument(msg, fallback string) ux.Document {
	if msg == "" {
		msg = fallback
	}
	return ux.Document{
		Data: api.MessageResponse{Message: msg},
		Text: func(w io.Writer, _ bool) error {
			_, err := fmt.Fprintln(w, msg)
			return err
		},
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func minutes(m int) string {
	if m <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", m)
}

func count(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func rating(r float64) string {
	if r <= 0 {
		return ""
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
