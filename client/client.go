// Package client is a typed HTTP client for the storefront API. It keeps the
// session token from sign-up/sign-in and forgets it as soon as the server
// answers 401.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("storefront api: %d %s: %s", e.StatusCode, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("storefront api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for the API served at baseURL, e.g. http://localhost:8080.
func New(baseURL string) *Client {
	c := &Client{}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api").
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if token := c.Token(); token != "" {
				req.SetAuthToken(token)
			}
			return nil
		}).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() == http.StatusUnauthorized {
				c.SetToken("")
			}
			return nil
		})
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// send executes req and decodes a 2xx body into result.
func (c *Client) send(req *resty.Request, method, path string, result any) error {
	apiErr := &APIError{}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.SetError(apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*models.User, error) {
	var out authResponse
	if err := c.send(c.request(ctx).SetBody(body), http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.User, nil
}

func (c *Client) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	return c.authenticate(ctx, "/auth/signup", models.SignupData{Username: username, Email: email, Password: password})
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	return c.authenticate(ctx, "/auth/signin", models.LoginData{Email: email, Password: password})
}

// Logout forgets the token even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetToken("")
	return c.send(c.request(ctx), http.MethodPost, "/auth/logout", nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.send(c.request(ctx), http.MethodGet, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

type ProductQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

type ProductPage struct {
	Products    []models.Product `json:"products"`
	Total       int64            `json:"total"`
	Pages       int              `json:"pages"`
	CurrentPage int              `json:"currentPage"`
	HasNext     bool             `json:"hasNext"`
	HasPrev     bool             `json:"hasPrev"`
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	params := map[string]string{}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.Category != "" {
		params["category"] = q.Category
	}

	var out ProductPage
	if err := c.send(c.request(ctx).SetQueryParams(params), http.MethodGet, "/products", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out struct {
		Product models.Product `json:"product"`
	}
	if err := c.send(c.request(ctx).SetPathParam("id", id), http.MethodGet, "/products/{id}", &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

type cartResponse struct {
	Cart models.CartView `json:"cart"`
}

func (c *Client) cart(req *resty.Request, method, path string) (*models.CartView, error) {
	var out cartResponse
	if err := c.send(req, method, path, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) GetCart(ctx context.Context) (*models.CartView, error) {
	return c.cart(c.request(ctx), http.MethodGet, "/cart")
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*models.CartView, error) {
	body := models.AddToCartData{ProductID: productID, Quantity: &quantity}
	return c.cart(c.request(ctx).SetBody(body), http.MethodPost, "/cart")
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.CartView, error) {
	body := models.UpdateCartItemData{ProductID: productID, Quantity: &quantity}
	return c.cart(c.request(ctx).SetBody(body), http.MethodPut, "/cart")
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*models.CartView, error) {
	return c.cart(c.request(ctx).SetPathParam("productId", productID), http.MethodDelete, "/cart/{productId}")
}

func (c *Client) ClearCart(ctx context.Context) (*models.CartView, error) {
	return c.cart(c.request(ctx), http.MethodDelete, "/cart")
}

func (c *Client) ApplyPromoCode(ctx context.Context, code string) (*models.CartView, error) {
	return c.cart(c.request(ctx).SetBody(models.ApplyPromoCodeData{Code: code}), http.MethodPost, "/cart/promo")
}

func (c *Client) RemovePromoCode(ctx context.Context) (*models.CartView, error) {
	return c.cart(c.request(ctx), http.MethodDelete, "/cart/promo")
}

type PromoValidation struct {
	Valid           bool      `json:"valid"`
	Code            string    `json:"code,omitempty"`
	DiscountPercent float64   `json:"discountPercent,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
	Message         string    `json:"message,omitempty"`
}

// ValidatePromoCode reports an invalid or expired code as Valid == false
// rather than as an error.
func (c *Client) ValidatePromoCode(ctx context.Context, code string) (*PromoValidation, error) {
	var out PromoValidation
	resp, err := c.request(ctx).
		SetPathParam("code", code).
		SetResult(&out).
		SetError(&out).
		Get("/promo-codes/validate/{code}")
	if err != nil {
		return nil, fmt.Errorf("validate promo code: %w", err)
	}
	switch {
	case !resp.IsError():
		return &out, nil
	case resp.StatusCode() == http.StatusBadRequest:
		out.Valid = false
		return &out, nil
	default:
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: out.Message}
	}
}
