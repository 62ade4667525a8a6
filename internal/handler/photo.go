package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/junk-pickup/internal/service"
)

// maxUploadImages bounds a single /v1/analyze request.
const maxUploadImages = 10

// Analyzer scores photos.
type Analyzer interface {
	AnalyzeURL(ctx context.Context, fileURL string) (service.Analysis, error)
	AnalyzeUpload(ctx context.Context, r io.Reader) (*service.Analysis, error)
}

// PhotoHandler serves the photo analysis endpoints.  Analysis output is
// advisory and never required to create a booking.
type PhotoHandler struct {
	analyzer Analyzer
}

func NewPhotoHandler(a Analyzer) *PhotoHandler { return &PhotoHandler{analyzer: a} }

// AnalyzeURL handles POST /v1/photos/analyze with {"file_url": ...}.
func (h *PhotoHandler) AnalyzeURL(c echo.Context) error {
	var body struct {
		FileURL string `json:"file_url"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request")
	}
	analysis, err := h.analyzer.AnalyzeURL(c.Request().Context(), body.FileURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"file_url": body.FileURL, "analysis": analysis})
}

type uploadResult struct {
	Filename string            `json:"filename"`
	Size     int64             `json:"size"`
	Analysis *service.Analysis `json:"analysis"`
}

// AnalyzeUploads handles POST /v1/analyze with one or more multipart
// "images" parts.  Parts that are not images get a null analysis.
func (h *PhotoHandler) AnalyzeUploads(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "images required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return badRequest(c, "images required")
	}
	if len(files) > maxUploadImages {
		return badRequest(c, "too many images")
	}

	ctx := c.Request().Context()
	results := make([]uploadResult, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return respondError(c, err)
		}
		analysis, err := h.analyzer.AnalyzeUpload(ctx, f)
		_ = f.Close()
		if err != nil {
			return respondError(c, err)
		}
		results = append(results, uploadResult{Filename: fh.Filename, Size: fh.Size, Analysis: analysis})
	}
	log.WithField("images", len(results)).Debug("analyzed uploads")
	return c.JSON(http.StatusOK, echo.Map{"images": results})
}
