package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/junk-pickup/internal/model"
)

// CatalogLister lists the bookable items.
type CatalogLister interface {
	ListAll(ctx context.Context) ([]model.CatalogItem, error)
}

// CatalogHandler serves GET /v1/catalog.
type CatalogHandler struct {
	catalog CatalogLister
}

func NewCatalogHandler(l CatalogLister) *CatalogHandler { return &CatalogHandler{catalog: l} }

// List returns every catalog item ordered by id.
func (h *CatalogHandler) List(c echo.Context) error {
	items, err := h.catalog.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
