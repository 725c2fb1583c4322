package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciplore/reciplore/internal/api/apitest"
	apperrors "github.com/reciplore/reciplore/internal/errors"
)

type cli struct {
	srv  *apitest.Server
	home string
}

// newCLI points the command tree at a fake backend with an empty home
// directory. Prompts are disabled.
func newCLI(t *testing.T) *cli {
	t.Helper()

	c := &cli{srv: apitest.New(t), home: t.TempDir()}
	t.Setenv("HOME", c.home)
	t.Setenv("CI", "true")
	t.Setenv("RECIPLORE_API_BASE_URL", c.srv.URL())
	return c
}

func (c *cli) run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	err = Run(context.Background(), append(args, "--no-color"), &out, &errOut)
	return out.String(), errOut.String(), err
}

func (c *cli) cookieFile() string {
	return filepath.Join(c.home, ".reciplore", "cookies.json")
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func userBody() map[string]interface{} {
	return map[string]interface{}{
		"_id":          "u1",
		"username":     "mona",
		"email":        "mona@example.com",
		"role":         "user",
		"profileImage": nil,
		"phoneNumbers": []string{"+201000000000"},
		"addresses": []map[string]interface{}{
			{"_id": "a1", "street": "12 Tahrir St", "city": "Cairo", "country": "Egypt", "isDefault": true},
		},
	}
}

// login signs in through both factors and returns the access token.
func (c *cli) login(t *testing.T) string {
	t.Helper()

	access := signedToken(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC))
	body := userBody()
	body["accessToken"] = access
	body["refreshToken"] = "refresh-1"

	c.srv.Respond(apitest.RouteLogin, http.StatusOK, apitest.Message("Verification code sent"))
	c.srv.Respond(apitest.RouteVerifyLogin, http.StatusOK, body)
	c.srv.Respond(apitest.RouteGetProfile, http.StatusOK, map[string]interface{}{"user": userBody()})

	_, _, err := c.run("auth", "login", "--email", "mona@example.com", "--password", "pw", "--code", "123456")
	require.NoError(t, err)
	return access
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()

	paths := [][]string{
		{"auth", "register"},
		{"auth", "verify-email"},
		{"auth", "login"},
		{"auth", "verify-login"},
		{"auth", "refresh"},
		{"auth", "status"},
		{"auth", "logout"},
		{"auth", "delete-account"},
		{"profile", "show"},
		{"profile", "update"},
		{"profile", "avatar", "upload"},
		{"profile", "avatar", "delete"},
		{"address", "list"},
		{"address", "add"},
		{"address", "delete"},
		{"recipes", "list"},
		{"recipes", "show"},
		{"recipes", "reviews"},
		{"recipes", "review"},
		{"market", "ingredients"},
		{"market", "categories"},
		{"market", "countries"},
		{"cart", "show"},
		{"cart", "add"},
		{"cart", "remove"},
		{"cart", "clear"},
		{"orders", "list"},
		{"orders", "create"},
		{"orders", "cancel"},
		{"ai", "search"},
		{"doctor"},
		{"version"},
		{"completion"},
	}

	for _, path := range paths {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			found, _, err := root.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], found.Name())
		})
	}

	for _, flag := range []string{"config", "format", "api-url", "metrics-file", "verbose", "no-color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing persistent flag --%s", flag)
	}
}

func TestVersionNeedsNoConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RECIPLORE_API_BASE_URL", "not a url")

	var out bytes.Buffer
	err := Run(context.Background(), []string{"version"}, &out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "reciplore "))
}

func TestLogin_EstablishesSession(t *testing.T) {
	c := newCLI(t)
	c.srv.Respond(apitest.RouteLogin, http.StatusOK, apitest.Message("Verification code sent"))
	body := userBody()
	body["accessToken"] = "access-1"
	body["refreshToken"] = "refresh-1"
	c.srv.Respond(apitest.RouteVerifyLogin, http.StatusOK, body)

	stdout, stderr, err := c.run("auth", "login", "--email", "mona@example.com", "--password", "pw", "--code", "123456")
	require.NoError(t, err)

	assert.Contains(t, stdout, "mona@example.com")
	assert.Contains(t, stdout, "12 Tahrir St")
	assert.Contains(t, stderr, "Verification code sent")
	assert.Contains(t, stderr, "Logged in as mona")

	req, ok := c.srv.LastRequest(apitest.RouteVerifyLogin)
	require.True(t, ok)
	var sent map[string]string
	require.NoError(t, req.JSON(&sent))
	assert.Equal(t, "123456", sent["code"])

	data, err := os.ReadFile(c.cookieFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "access-1")
	assert.Contains(t, string(data), "refresh-1")
}

func TestLogin_WithoutCodeStopsAfterFirstFactor(t *testing.T) {
	c := newCLI(t)
	c.srv.Respond(apitest.RouteLogin, http.StatusOK, apitest.Message("Verification code sent"))

	_, stderr, err := c.run("auth", "login", "--email", "mona@example.com", "--password", "pw")
	require.NoError(t, err)

	assert.Contains(t, stderr, "reciplore auth verify-login")
	assert.Equal(t, 0, c.srv.Calls(apitest.RouteVerifyLogin))
	assert.NoFileExists(t, c.cookieFile())
}

func TestVerifyLogin_MissingTokenFails(t *testing.T) {
	c := newCLI(t)
	body := userBody()
	body["accessToken"] = "access-1"
	c.srv.Respond(apitest.RouteVerifyLogin, http.StatusOK, body)

	_, _, err := c.run("auth", "verify-login", "123456")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokensMissing))
	assert.NoFileExists(t, c.cookieFile())
}

func TestStatus_ReportsTokenExpiry(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	stdout, _, err := c.run("auth", "status", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Status          string `json:"status"`
		AccessExpiresAt string `json:"accessTokenExpiresAt"`
		User            struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, "authenticated", view.Status)
	assert.Equal(t, "mona", view.User.Username)
	assert.Equal(t, "2030-01-02T03:04:05Z", view.AccessExpiresAt)
}

func TestStatus_LoggedOut(t *testing.T) {
	c := newCLI(t)

	stdout, _, err := c.run("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "unauthenticated")
	assert.Equal(t, 0, c.srv.TotalCalls())
}

func TestLogout_RemovesCookies(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	require.FileExists(t, c.cookieFile())
	before := c.srv.TotalCalls()

	stdout, _, err := c.run("auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out.")
	assert.Equal(t, before, c.srv.TotalCalls())

	_, _, err = c.run("profile", "show")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNoAccessToken))
}

func TestProfileShow_NotLoggedIn(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("profile", "show")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNoAccessToken))
	assert.Contains(t, stderr, "Error: not logged in")
	assert.Contains(t, stderr, "reciplore auth login")
	assert.Equal(t, 0, c.srv.TotalCalls())
}

func TestProfileUpdate_SendsOnlyChangedFields(t *testing.T) {
	c := newCLI(t)
	access := c.login(t)

	updated := userBody()
	updated["username"] = "mona2"
	c.srv.Respond(apitest.RouteUpdateUser, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"user":    updated,
	})

	stdout, stderr, err := c.run("profile", "update", "--username", "mona2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mona2")
	assert.Contains(t, stderr, "Profile updated")

	req, ok := c.srv.LastRequest(apitest.RouteUpdateUser)
	require.True(t, ok)
	assert.Equal(t, "accessToken_"+access, req.Header.Get("accessToken"))

	var sent map[string]interface{}
	require.NoError(t, req.JSON(&sent))
	assert.Equal(t, map[string]interface{}{"username": "mona2"}, sent)
}

func TestCart_RetriesAfterRefresh(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	c.srv.RespondSequence(apitest.RouteGetCart,
		apitest.Response{Status: http.StatusUnauthorized, Body: apitest.Message("jwt expired")},
		apitest.Response{Status: http.StatusOK, Body: map[string]interface{}{
			"cart": map[string]interface{}{
				"items": []map[string]interface{}{
					{"ingredient": map[string]interface{}{"_id": "i1", "name": "Lentils", "price": 2.5}, "quantity": 4},
				},
			},
		}},
	)
	c.srv.Respond(apitest.RouteRefreshToken, http.StatusOK, map[string]string{"accessToken": "access-2"})

	stdout, _, err := c.run("cart", "show")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Lentils")
	assert.Contains(t, stdout, "Total: 10.00")
	assert.Equal(t, 2, c.srv.Calls(apitest.RouteGetCart))
	assert.Equal(t, 1, c.srv.Calls(apitest.RouteRefreshToken))

	req, ok := c.srv.LastRequest(apitest.RouteGetCart)
	require.True(t, ok)
	assert.Equal(t, "accessToken_access-2", req.Header.Get("accessToken"))
}

func TestOrdersCreate_UsesDefaultAddress(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.srv.Respond(apitest.RouteCreateOrder, http.StatusCreated, map[string]interface{}{
		"message": "Order placed",
		"order":   map[string]interface{}{"_id": "o1", "status": "pending", "totalPrice": 10, "paymentMethod": "cash"},
	})

	stdout, _, err := c.run("orders", "create")
	require.NoError(t, err)
	assert.Contains(t, stdout, "o1")

	req, ok := c.srv.LastRequest(apitest.RouteCreateOrder)
	require.True(t, ok)
	var sent map[string]string
	require.NoError(t, req.JSON(&sent))
	assert.Equal(t, "a1", sent["addressId"])
	assert.Equal(t, "cash", sent["paymentMethod"])
}

func TestRecipesList(t *testing.T) {
	c := newCLI(t)
	c.srv.Respond(apitest.RouteListRecipes, http.StatusOK, map[string]interface{}{
		"recipes": []map[string]interface{}{
			{"_id": "r1", "title": "Koshari", "category": "Main", "country": "Egypt", "prepTime": 45},
		},
		"totalPages":  3,
		"currentPage": 2,
	})

	stdout, _, err := c.run("recipes", "list", "--page", "2", "--category", "Main")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Koshari")
	assert.Contains(t, stdout, "45 min")
	assert.Contains(t, stdout, "Page 2 of 3, next: --page 3")

	req, ok := c.srv.LastRequest(apitest.RouteListRecipes)
	require.True(t, ok)
	assert.Equal(t, "2", req.Query["page"])
	assert.Equal(t, "Main", req.Query["category"])
	assert.Empty(t, req.Query["country"])
}

func TestBackendErrorIsReported(t *testing.T) {
	c := newCLI(t)
	c.srv.Respond(apitest.RouteGetRecipe, http.StatusNotFound, apitest.Message("Recipe not found"))

	_, stderr, err := c.run("recipes", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: Recipe not found")
}

func TestDeleteAccount_RequiresConfirmation(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	_, _, err := c.run("auth", "delete-account")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	assert.Equal(t, 0, c.srv.Calls(apitest.RouteDeleteUser))

	c.srv.Respond(apitest.RouteDeleteUser, http.StatusOK, apitest.Message("Account deleted"))
	_, stderr, err := c.run("auth", "delete-account", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Account deleted")
	assert.NoFileExists(t, c.cookieFile())
}

func TestMetricsFile(t *testing.T) {
	c := newCLI(t)
	c.srv.Respond(apitest.RouteListCategories, http.StatusOK, map[string]interface{}{
		"categories": []map[string]string{{"_id": "c1", "name": "Dessert"}},
	})
	path := filepath.Join(t.TempDir(), "reciplore.prom")

	stdout, _, err := c.run("market", "categories", "--metrics-file", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dessert")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reciplore_api_requests_total")
}

func TestInvalidFormat(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("recipes", "list", "-o", "xml")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))
	assert.Equal(t, 0, c.srv.TotalCalls())
}

func TestDoctor(t *testing.T) {
	c := newCLI(t)
	c.srv.Respond(apitest.RouteListCategories, http.StatusOK, map[string]interface{}{
		"categories": []map[string]string{{"_id": "c1", "name": "Dessert"}},
	})

	stdout, _, err := c.run("doctor", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Status string `json:"status"`
		Checks []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, "degraded", view.Status)
	require.Len(t, view.Checks, 3)
	assert.Equal(t, "backend", view.Checks[0].Name)
	assert.Equal(t, "healthy", view.Checks[0].Status)
	assert.Equal(t, "cookie-store", view.Checks[1].Name)
	assert.Equal(t, "healthy", view.Checks[1].Status)
	assert.Equal(t, "session", view.Checks[2].Name)
	assert.Equal(t, "degraded", view.Checks[2].Status)
}

func TestDoctor_UnreachableBackendFails(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("doctor", "--api-url", "http://127.0.0.1:1/api", "--timeout", "2s")
	require.Error(t, err)
}
