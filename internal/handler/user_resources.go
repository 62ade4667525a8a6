package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/junk-pickup/internal/model"
)

// AddressStore persists saved addresses.
type AddressStore interface {
	Create(ctx context.Context, a *model.Address) error
	ListByUser(ctx context.Context, userID string) ([]model.Address, error)
}

// PaymentMethodStore persists stored payment methods.
type PaymentMethodStore interface {
	Create(ctx context.Context, p *model.PaymentMethod) error
	ListByUser(ctx context.Context, userID string) ([]model.PaymentMethod, error)
}

// UserResourceHandler serves the per-user addresses and payment methods.
// These resources are independent of booking creation.
type UserResourceHandler struct {
	addresses AddressStore
	payments  PaymentMethodStore
}

func NewUserResourceHandler(a AddressStore, p PaymentMethodStore) *UserResourceHandler {
	return &UserResourceHandler{addresses: a, payments: p}
}

// ListAddresses handles GET /v1/users/addresses?user_id=.
func (h *UserResourceHandler) ListAddresses(c echo.Context) error {
	userID := strings.TrimSpace(userIDParam(c))
	if userID == "" {
		return badRequest(c, "user_id required")
	}
	out, err := h.addresses.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAddress handles POST /v1/users/addresses.
func (h *UserResourceHandler) CreateAddress(c echo.Context) error {
	var body struct {
		UserID    string `json:"user_id"`
		Street    string `json:"street"`
		City      string `json:"city"`
		State     string `json:"state"`
		Zip       string `json:"zip"`
		IsDefault bool   `json:"is_default"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request")
	}
	if anyBlank(body.UserID, body.Street, body.City, body.State, body.Zip) {
		return badRequest(c, "Missing fields")
	}
	a := &model.Address{
		UserID:    strings.TrimSpace(body.UserID),
		Street:    body.Street,
		City:      body.City,
		State:     body.State,
		Zip:       body.Zip,
		IsDefault: body.IsDefault,
	}
	if err := h.addresses.Create(c.Request().Context(), a); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// ListPayments handles GET /v1/users/payments?user_id=.
func (h *UserResourceHandler) ListPayments(c echo.Context) error {
	userID := strings.TrimSpace(userIDParam(c))
	if userID == "" {
		return badRequest(c, "user_id required")
	}
	out, err := h.payments.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// CreatePayment handles POST /v1/users/payments.  The token is stored but
// never echoed back.
func (h *UserResourceHandler) CreatePayment(c echo.Context) error {
	var body struct {
		UserID       string `json:"user_id"`
		Provider     string `json:"provider"`
		AccountLast4 string `json:"account_last4"`
		Token        string `json:"token"`
		IsDefault    bool   `json:"is_default"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request")
	}
	if anyBlank(body.UserID, body.Provider, body.AccountLast4, body.Token) {
		return badRequest(c, "Missing fields")
	}
	p := &model.PaymentMethod{
		UserID:       strings.TrimSpace(body.UserID),
		Provider:     body.Provider,
		AccountLast4: body.AccountLast4,
		Token:        body.Token,
		IsDefault:    body.IsDefault,
	}
	if err := h.payments.Create(c.Request().Context(), p); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func anyBlank(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
