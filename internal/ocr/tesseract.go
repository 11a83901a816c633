package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// TesseractEngine recognizes text by running the tesseract binary. Parsing
// the TSV output gives per-word confidences without needing cgo bindings.
type TesseractEngine struct {
	// Binary is the tesseract executable; defaults to "tesseract" on PATH.
	Binary string
}

func (e *TesseractEngine) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return "tesseract"
}

// Recognize writes the image to a temp file and runs tesseract in TSV mode.
// A readable image with no text is a valid zero-confidence result; a failed
// pipeline (unreadable image, missing binary) is an error.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (Result, error) {
	tmp, err := os.CreateTemp("", "homevault-ocr-*.img")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("writing temp image: %w", err)
	}
	tmp.Close()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary(), tmp.Name(), "stdout", "tsv")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("running tesseract: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	return parseTSV(stdout.String()), nil
}

// parseTSV collects word-level rows (level 5) from tesseract TSV output,
// reassembling lines and averaging word confidences.
func parseTSV(output string) Result {
	var words []string
	var lines []string
	var confSum float64
	var confCount int
	lastLineKey := ""

	flush := func() {
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
			words = words[:0]
		}
	}

	for _, row := range strings.Split(output, "\n") {
		fields := strings.Split(row, "\t")
		if len(fields) < 12 || fields[0] == "level" {
			continue
		}
		if fields[0] != "5" {
			continue
		}
		text := strings.TrimSpace(fields[11])
		if text == "" {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil || conf < 0 {
			continue
		}

		// page:block:par:line identifies the visual line.
		lineKey := strings.Join(fields[1:5], ":")
		if lineKey != lastLineKey {
			flush()
			lastLineKey = lineKey
		}

		words = append(words, text)
		confSum += conf
		confCount++
	}
	flush()

	if confCount == 0 {
		return Result{}
	}
	return Result{
		RawText:    strings.Join(lines, "\n"),
		Confidence: confSum / float64(confCount) / 100,
	}
}
