package ocr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeEngine struct {
	result Result
	err    error

	mu       sync.Mutex
	inFlight int32
	peak     int32
	release  chan struct{}
}

func (e *fakeEngine) Recognize(ctx context.Context, image []byte) (Result, error) {
	n := atomic.AddInt32(&e.inFlight, 1)
	defer atomic.AddInt32(&e.inFlight, -1)

	e.mu.Lock()
	if n > e.peak {
		e.peak = n
	}
	e.mu.Unlock()

	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	return e.result, e.err
}

func TestExtractText(t *testing.T) {
	engine := &fakeEngine{result: Result{RawText: "HARDWARE STORE", Confidence: 0.92}}
	service := NewService(engine, 2)

	result, err := service.ExtractText(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if result.RawText != "HARDWARE STORE" || result.Confidence != 0.92 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestExtractTextEngineError(t *testing.T) {
	boom := errors.New("binary missing")
	service := NewService(&fakeEngine{err: boom}, 1)

	if _, err := service.ExtractText(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("expected wrapped engine error, got %v", err)
	}
}

func TestExtractTextBoundsConcurrency(t *testing.T) {
	engine := &fakeEngine{release: make(chan struct{})}
	service := NewService(engine, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			service.ExtractText(ctx, nil)
		}()
	}

	close(engine.release)
	wg.Wait()

	engine.mu.Lock()
	peak := engine.peak
	engine.mu.Unlock()
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent recognitions, saw %d", peak)
	}
}

func TestExtractTextCancelled(t *testing.T) {
	service := NewService(&fakeEngine{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := service.ExtractText(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseTSV(t *testing.T) {
	// Abbreviated tesseract TSV: header, a page row, then word rows on two
	// visual lines.
	const output = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t96\tHARDWARE\n" +
		"5\t1\t1\t1\t1\t2\t12\t0\t10\t10\t90\tSTORE\n" +
		"5\t1\t1\t1\t2\t1\t0\t12\t10\t10\t80\tTOTAL\n" +
		"5\t1\t1\t1\t2\t2\t12\t12\t10\t10\t74\t45.99\n"

	result := parseTSV(output)
	if result.RawText != "HARDWARE STORE\nTOTAL 45.99" {
		t.Errorf("unexpected text: %q", result.RawText)
	}
	want := (96 + 90 + 80 + 74) / 4.0 / 100
	if result.Confidence != want {
		t.Errorf("expected confidence %v, got %v", want, result.Confidence)
	}
}

func TestParseTSVEmpty(t *testing.T) {
	result := parseTSV("level\tpage_num\n1\t1\n")
	if result.RawText != "" || result.Confidence != 0 {
		t.Errorf("expected zero result for textless output, got %+v", result)
	}
}
