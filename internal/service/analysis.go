package service

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"strings"
)

// Analysis is the opaque result attached to a photo.  Score is a
// placeholder in [0, 1); no real image analysis is performed.
type Analysis struct {
	Score float64 `json:"score"`
}

// ImageAnalyzer scores photos.  Callers treat its output as optional:
// bookings never depend on it succeeding.
type ImageAnalyzer struct {
	score func() float64
}

// NewImageAnalyzer returns the stub analyzer.
func NewImageAnalyzer() *ImageAnalyzer {
	return &ImageAnalyzer{score: rand.Float64}
}

// AnalyzeURL scores the photo stored at fileURL.
func (a *ImageAnalyzer) AnalyzeURL(ctx context.Context, fileURL string) (Analysis, error) {
	if strings.TrimSpace(fileURL) == "" {
		return Analysis{}, invalid("file_url required")
	}
	return Analysis{Score: a.score()}, ctx.Err()
}

// AnalyzeUpload scores an uploaded file.  Content that does not sniff as
// an image yields nil rather than an error.
func (a *ImageAnalyzer) AnalyzeUpload(ctx context.Context, r io.Reader) (*Analysis, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Analysis{Score: a.score()}, nil
}
