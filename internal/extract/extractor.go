package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kpauljoseph/examdeck/internal/config"
	"github.com/kpauljoseph/examdeck/internal/llm"
	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

// ErrNoContent signals that no slide content survived extraction: every batch
// either failed to parse or came back empty. Distinct from a per-batch parse
// failure, which only degrades the result.
var ErrNoContent = errors.New("no slide content extracted")

// Extractor converts rendered slide pages into a page-to-text mapping by
// submitting them to the generation service in bounded batches.
type Extractor struct {
	client llm.Client
	cfg    *config.Config
	logger *logger.Logger
}

func New(client llm.Client, cfg *config.Config, logger *logger.Logger) *Extractor {
	return &Extractor{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// SplitBatches partitions keys into consecutive groups of at most size,
// preserving order. Every key lands in exactly one group.
func SplitBatches(keys []string, size int) [][]string {
	if size <= 0 || len(keys) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		batches = append(batches, keys[start:end])
	}
	return batches
}

// ParseBatchReply parses one extraction reply into page text keyed by page
// number, stripping a code-fence wrapper first if the model added one.
// Parsing is all-or-nothing: a malformed reply contributes no pages.
func ParseBatchReply(reply string) (models.PageMap, error) {
	var pages models.PageMap
	if err := json.Unmarshal([]byte(llm.StripCodeFence(reply)), &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// Run submits every batch in ascending page order and merges the successful
// replies. A batch whose reply cannot be parsed is logged and skipped; a
// failed service call aborts the run. Returns ErrNoContent when the merged
// result is empty.
func (e *Extractor) Run(ctx context.Context, rendered models.PageMap) (models.PageMap, error) {
	keys := rendered.SortedKeys()
	extracted := make(models.PageMap)

	for _, batch := range SplitBatches(keys, e.cfg.BatchSize) {
		first, last := batch[0], batch[len(batch)-1]
		e.logger.Info("Extracting slides %s-%s...", first, last)

		req := llm.Request{
			Model:       e.cfg.Model,
			Temperature: e.cfg.Temperature.Extraction,
			MaxTokens:   e.cfg.MaxTokens,
			Parts:       []llm.Part{{Text: extractionPrompt(first, last)}},
		}
		for _, key := range batch {
			req.Parts = append(req.Parts, llm.Part{
				ImageURL: "data:image/png;base64," + rendered[key],
			})
		}

		reply, err := llm.CompleteWithRetry(ctx, e.client, req, e.cfg.MaxRetries, llm.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("extraction request for slides %s-%s failed: %w", first, last, err)
		}

		pages, err := ParseBatchReply(reply)
		if err != nil {
			e.logger.Warn("Could not parse extraction reply for slides %s-%s: %v", first, last, err)
			continue
		}

		extracted.Merge(pages)
		e.logger.Info("Extracted %d slides", len(pages))
	}

	if len(extracted) == 0 {
		return nil, ErrNoContent
	}

	return extracted, nil
}

func extractionPrompt(first, last string) string {
	return fmt.Sprintf("Extract the text content from each slide (pages %s-%s). "+
		"For each slide, return a JSON object with the page number as key and the full text as value. "+
		"Include all text, formulas (in plain text notation), bullet points, and labels. "+
		`Return ONLY valid JSON, no markdown. Example: {"1": "slide text...", "2": "..."}`,
		first, last)
}
