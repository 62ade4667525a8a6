// Package router registers the HTTP routes of the booking API.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/junk-pickup/internal/handler"
	"github.com/iliyamo/junk-pickup/internal/middleware"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Bookings  *handler.BookingHandler
	Photos    *handler.PhotoHandler
	Users     *handler.UserResourceHandler
	Catalog   *handler.CatalogHandler
	Readiness echo.HandlerFunc
}

// Middlewares are applied per route group.  Nil entries are skipped.
type Middlewares struct {
	Cache     echo.MiddlewareFunc // read-only catalog routes
	RateLimit echo.MiddlewareFunc // write routes
}

// RegisterRoutes mounts the probes and the /v1 API on e and installs the
// JSON error handler.
func RegisterRoutes(e *echo.Echo, h Handlers, mw Middlewares) {
	e.HTTPErrorHandler = jsonErrorHandler
	e.Use(middleware.RequestLogger())

	e.GET("/healthz", handler.Health)
	if h.Readiness != nil {
		e.GET("/readyz", h.Readiness)
	}

	v1 := e.Group("/v1")
	writes := optional(mw.RateLimit)

	v1.GET("/catalog", h.Catalog.List, optional(mw.Cache)...)

	v1.POST("/bookings", h.Bookings.Create, writes...)
	v1.GET("/bookings", h.Bookings.List)
	v1.PUT("/bookings/:id", h.Bookings.Update, writes...)

	v1.POST("/photos/analyze", h.Photos.AnalyzeURL, writes...)
	v1.POST("/analyze", h.Photos.AnalyzeUploads, writes...)

	v1.GET("/users/addresses", h.Users.ListAddresses)
	v1.POST("/users/addresses", h.Users.CreateAddress, writes...)
	v1.GET("/users/payments", h.Users.ListPayments)
	v1.POST("/users/payments", h.Users.CreatePayment, writes...)
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}

// jsonErrorHandler renders framework errors (unknown route, wrong method,
// oversized body) as {"error": ...}.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch code {
		case http.StatusNotFound:
			msg = "Not found"
		default:
			msg = http.StatusText(code)
		}
	} else {
		log.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}
