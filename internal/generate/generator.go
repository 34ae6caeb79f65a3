package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kpauljoseph/examdeck/internal/config"
	"github.com/kpauljoseph/examdeck/internal/llm"
	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

// Generator turns extracted slide text into flashcards, one generation
// request per chunk of slides. The optional outline text is injected into
// every prompt to steer the cards toward the announced exam focus.
type Generator struct {
	client  llm.Client
	cfg     *config.Config
	outline string
	logger  *logger.Logger
}

func New(client llm.Client, cfg *config.Config, outline string, logger *logger.Logger) *Generator {
	return &Generator{
		client:  client,
		cfg:     cfg,
		outline: outline,
		logger:  logger,
	}
}

// SplitChunks partitions the sorted page keys into consecutive groups of at
// most size, preserving order.
func SplitChunks(keys []string, size int) [][]string {
	if size <= 0 || len(keys) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}

// ChunkText concatenates the selected pages under per-slide headers, in key
// order.
func ChunkText(pages models.PageMap, keys []string) string {
	sections := make([]string, 0, len(keys))
	for _, k := range keys {
		sections = append(sections, fmt.Sprintf("--- Slide %s ---\n%s", k, pages[k]))
	}
	return strings.Join(sections, "\n\n")
}

// ParseCardsReply parses one generation reply into flashcards, stripping a
// code-fence wrapper first if present. Record shape beyond valid JSON is not
// enforced; a card missing a field is accepted as-is.
func ParseCardsReply(reply string) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := json.Unmarshal([]byte(llm.StripCodeFence(reply)), &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Run submits every chunk in ascending numeric slide order and concatenates
// the successfully parsed replies. A chunk whose reply cannot be parsed is
// logged and skipped; a failed service call aborts the run. The returned
// slice may be empty, which still counts as a completed run.
func (g *Generator) Run(ctx context.Context, pages models.PageMap) ([]models.Flashcard, error) {
	keys := pages.SortedKeys()
	cards := make([]models.Flashcard, 0)

	for _, chunk := range SplitChunks(keys, g.cfg.ChunkSize) {
		first, last := chunk[0], chunk[len(chunk)-1]
		g.logger.Info("Generating flashcards for slides %s-%s...", first, last)

		req := llm.Request{
			Model:       g.cfg.Model,
			Temperature: g.cfg.Temperature.Generation,
			MaxTokens:   g.cfg.MaxTokens,
			Parts:       []llm.Part{{Text: g.buildPrompt(pages, chunk)}},
		}

		reply, err := llm.CompleteWithRetry(ctx, g.client, req, g.cfg.MaxRetries, llm.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("generation request for slides %s-%s failed: %w", first, last, err)
		}

		parsed, err := ParseCardsReply(reply)
		if err != nil {
			g.logger.Warn("Could not parse flashcard reply for slides %s-%s: %v", first, last, err)
			continue
		}

		g.logger.Info("%d flashcards generated", len(parsed))
		cards = append(cards, parsed...)
	}

	return cards, nil
}

func (g *Generator) buildPrompt(pages models.PageMap, chunk []string) string {
	outlineSection := ""
	if g.outline != "" {
		outlineSection = fmt.Sprintf("\nEXAM FOCUS (prioritize these topics):\n%s\n", g.outline)
	}

	first, last := chunk[0], chunk[len(chunk)-1]

	return fmt.Sprintf(`You are creating exam preparation flashcards for a university course.
%s
SLIDE CONTENT (slides %s-%s):
%s

Generate 6-12 high-quality flashcards from these slides. Each flashcard should:
1. Have a clear, specific QUESTION on the front
2. Have a comprehensive but concise ANSWER on the back
3. Focus on exam-relevant content and key concepts
4. Include practical examples where relevant
5. Cover both conceptual understanding and practical application
6. For mathematical formulas, use plain text notation (e.g., Y_i = b0 + b1*X1 + e_i)
7. Skip purely structural slides (agenda, title pages)

Identify the topic/chapter each card belongs to based on the slide content.

Return ONLY a JSON array of objects with "question", "answer", and "topic" fields.
No markdown, no code blocks, just valid JSON.
`, outlineSection, first, last, ChunkText(pages, chunk))
}
