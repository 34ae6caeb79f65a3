package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

// ErrUnavailable signals that the page rendering/extraction capability could
// not be loaded for the document. Callers may fall back to another extraction
// mode once before treating it as fatal.
var ErrUnavailable = errors.New("pdf rendering capability unavailable")

// Source reads a slide PDF and produces page content for the pipeline, as
// either rendered page images (vision extraction) or embedded text.
type Source struct {
	path   string
	dpi    float64
	logger *logger.Logger
}

func NewSource(path string, dpi float64, logger *logger.Logger) *Source {
	return &Source{
		path:   path,
		dpi:    dpi,
		logger: logger,
	}
}

// PageCount runs a pdfcpu preflight on the document without loading the
// MuPDF renderer.
func (s *Source) PageCount() (int, error) {
	count, err := api.PageCountFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read page count of %s: %w", s.path, err)
	}
	return count, nil
}

// RenderPages rasterizes every page at the configured DPI and stages it as a
// base64 PNG payload keyed by its 1-based page number. No text is extracted
// locally; the payloads are submitted to the vision extractor in batches.
func (s *Source) RenderPages(ctx context.Context) (models.PageMap, error) {
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer doc.Close()

	pages := make(models.PageMap, doc.NumPage())

	// Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, s.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", pageNum+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", pageNum+1, err)
		}

		key := strconv.Itoa(pageNum + 1)
		pages[key] = base64.StdEncoding.EncodeToString(buf.Bytes())
		s.logger.Trace("Rendered page %s (%d PNG bytes)", key, buf.Len())
	}

	return pages, nil
}

// ExtractText pulls the embedded text of every page. Pages whose text trims
// to empty contribute no entry.
func (s *Source) ExtractText(ctx context.Context) (models.PageMap, error) {
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer doc.Close()

	pages := make(models.PageMap)

	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			s.logger.Warn("Couldn't extract text from page %d: %v", pageNum+1, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			s.logger.Debug("Page %d has no extractable text, skipping", pageNum+1)
			continue
		}

		pages[strconv.Itoa(pageNum+1)] = text
	}

	return pages, nil
}
