// Package apitest provides an in-process fake of the Reciplore backend.
//
// Every route answers 501 until a test stubs it. Calls are counted per route
// pattern so tests can assert how many requests an operation issued.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// BasePath is where the fake mounts its routes, matching the real backend.
const BasePath = "/api"

// Route patterns, in chi syntax.
const (
	RouteRegister        = "POST /auth/register"
	RouteVerifyEmail     = "GET /auth/verify-email"
	RouteLogin           = "POST /auth/login"
	RouteVerifyLogin     = "POST /auth/verify-login"
	RouteRefreshToken    = "GET /auth/refresh-token"
	RouteGetProfile      = "GET /auth/get-profile"
	RouteDeleteUser      = "DELETE /auth/delete-user"
	RouteUpdateUser      = "PUT /auth/update-user"
	RouteUploadImage     = "POST /auth/upload-profileImg"
	RouteDeleteImage     = "DELETE /auth/delete-profileImg"
	RouteAddAddress      = "POST /address/add-address"
	RouteDeleteAddress   = "DELETE /address/delete-address/{id}"
	RouteListRecipes     = "GET /recipe/get-all-recipes"
	RouteGetRecipe       = "GET /recipe/get-recipe/{id}"
	RouteListIngredients = "GET /ingredient/get-all-ingredients"
	RouteListCategories  = "GET /category/get-all-categories"
	RouteListCountries   = "GET /country/get-all-countries"
	RouteGetCart         = "GET /cart/get-cart"
	RouteAddToCart       = "POST /cart/add-to-cart"
	RouteRemoveFromCart  = "DELETE /cart/remove-from-cart/{ingredientId}"
	RouteClearCart       = "DELETE /cart/clear-cart"
	RouteCreateOrder     = "POST /order/create-order"
	RouteListOrders      = "GET /order/get-user-orders"
	RouteCancelOrder     = "PUT /order/cancel-order/{id}"
	RouteListReviews     = "GET /review/get-recipe-reviews/{recipeId}"
	RouteAddReview       = "POST /review/add-review/{recipeId}"
	RouteAISearch        = "POST /ai/search-recipes"
)

var routes = []struct{ method, pattern string }{
	{http.MethodPost, "/auth/register"},
	{http.MethodGet, "/auth/verify-email"},
	{http.MethodPost, "/auth/login"},
	{http.MethodPost, "/auth/verify-login"},
	{http.MethodGet, "/auth/refresh-token"},
	{http.MethodGet, "/auth/get-profile"},
	{http.MethodDelete, "/auth/delete-user"},
	{http.MethodPut, "/auth/update-user"},
	{http.MethodPost, "/auth/upload-profileImg"},
	{http.MethodDelete, "/auth/delete-profileImg"},
	{http.MethodPost, "/address/add-address"},
	{http.MethodDelete, "/address/delete-address/{id}"},
	{http.MethodGet, "/recipe/get-all-recipes"},
	{http.MethodGet, "/recipe/get-recipe/{id}"},
	{http.MethodGet, "/ingredient/get-all-ingredients"},
	{http.MethodGet, "/category/get-all-categories"},
	{http.MethodGet, "/country/get-all-countries"},
	{http.MethodGet, "/cart/get-cart"},
	{http.MethodPost, "/cart/add-to-cart"},
	{http.MethodDelete, "/cart/remove-from-cart/{ingredientId}"},
	{http.MethodDelete, "/cart/clear-cart"},
	{http.MethodPost, "/order/create-order"},
	{http.MethodGet, "/order/get-user-orders"},
	{http.MethodPut, "/order/cancel-order/{id}"},
	{http.MethodGet, "/review/get-recipe-reviews/{recipeId}"},
	{http.MethodPost, "/review/add-review/{recipeId}"},
	{http.MethodPost, "/ai/search-recipes"},
}

// Request is a recorded inbound call.
type Request struct {
	Method  string
	Path    string
	Header  http.Header
	Query   map[string]string
	Params  map[string]string
	Body    []byte
	Route   string
	Ordinal int
}

// JSON decodes the recorded body into v.
func (r Request) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
	requests []Request
}

// New starts a fake backend bound to IPv4 loopback and closes it on cleanup.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		handlers: make(map[string]http.HandlerFunc),
		calls:    make(map[string]int),
	}

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	srv := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: s.router()},
	}
	srv.Start()
	t.Cleanup(srv.Close)

	s.srv = srv
	return s
}

func (s *Server) router() http.Handler {
	api := chi.NewRouter()
	for _, rt := range routes {
		api.Method(rt.method, rt.pattern, s.dispatch(rt.method+" "+rt.pattern))
	}

	root := chi.NewRouter()
	root.Mount(BasePath, api)
	return root
}

// URL is the base URL to configure clients with.
func (s *Server) URL() string {
	return s.srv.URL + BasePath
}

// Handle installs h for route, replacing any previous stub.
func (s *Server) Handle(route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[route] = h
}

// Respond stubs route with a fixed JSON response.
func (s *Server) Respond(route string, status int, body interface{}) {
	s.Handle(route, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// RespondSequence answers successive calls with the given responses in order.
// The last response repeats once the sequence is exhausted.
func (s *Server) RespondSequence(route string, responses ...Response) {
	var (
		mu sync.Mutex
		i  int
	)
	s.Handle(route, func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		resp := responses[i]
		if i < len(responses)-1 {
			i++
		}
		mu.Unlock()
		WriteJSON(w, resp.Status, resp.Body)
	})
}

// Response is one canned reply.
type Response struct {
	Status int
	Body   interface{}
}

// Calls returns how many requests route received.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the recorded calls to route, oldest first.
func (s *Server) Requests(route string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Request
	for _, r := range s.requests {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// LastRequest returns the most recent call to route.
func (s *Server) LastRequest(route string) (Request, bool) {
	reqs := s.Requests(route)
	if len(reqs) == 0 {
		return Request{}, false
	}
	return reqs[len(reqs)-1], true
}

// Order returns the routes hit, in arrival order.
func (s *Server) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.requests))
	for i, r := range s.requests {
		out[i] = r.Route
	}
	return out
}

func (s *Server) dispatch(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		rec := Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Query:  make(map[string]string),
			Params: make(map[string]string),
			Body:   body,
			Route:  route,
		}
		for k := range r.URL.Query() {
			rec.Query[k] = r.URL.Query().Get(k)
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				rec.Params[key] = rctx.URLParams.Values[i]
			}
		}

		s.mu.Lock()
		s.calls[route]++
		rec.Ordinal = len(s.requests)
		s.requests = append(s.requests, rec)
		h := s.handlers[route]
		s.mu.Unlock()

		if h == nil {
			WriteJSON(w, http.StatusNotImplemented, map[string]string{"message": "route not stubbed: " + route})
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	}
}

// WriteJSON writes body as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Message is the backend's `{message}` body.
func Message(msg string) map[string]string {
	return map[string]string{"message": msg}
}
