// Package ocr extracts text from receipt images. Extraction can take
// seconds, so the service runs in its own concurrency domain with a bounded
// number of in-flight recognitions; callers suspend on ExtractText instead
// of blocking their own critical sections.
package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"
)

// LowConfidence is the threshold below which callers should flag a result
// for manual review. Policy lives with the caller; the service only reports
// the number.
const LowConfidence = 0.5

// Result is an extraction outcome. An image with no detectable text yields
// an empty zero-confidence result, not an error.
type Result struct {
	RawText    string
	Confidence float64 // mean word confidence, 0..1
}

// Engine performs the actual recognition. Production uses the tesseract
// engine; tests inject fakes.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}

// Service bounds concurrent extractions over an Engine.
type Service struct {
	engine Engine
	sem    *semaphore.Weighted
}

// NewService wraps an engine with a concurrency bound. A bound below one is
// treated as one.
func NewService(engine Engine, concurrency int64) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		engine: engine,
		sem:    semaphore.NewWeighted(concurrency),
	}
}

// ExtractText runs recognition on a receipt image. The caller suspends until
// a slot frees up and recognition completes, or ctx is cancelled.
func (s *Service) ExtractText(ctx context.Context, image []byte) (Result, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Result{}, err
	}
	defer s.sem.Release(1)

	result, err := s.engine.Recognize(ctx, image)
	if err != nil {
		return Result{}, fmt.Errorf("recognizing text: %w", err)
	}

	if result.Confidence < LowConfidence {
		slog.Debug("low confidence extraction", "confidence", result.Confidence)
	}
	return result, nil
}
