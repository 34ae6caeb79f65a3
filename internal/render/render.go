package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

// PlaceholderToken is the unique marker in the HTML template that the
// serialized flashcard data replaces.
const PlaceholderToken = "__FLASHCARD_DATA_PLACEHOLDER__"

// Builder produces the standalone interactive study page from a flashcard
// set. A missing template is a warning, not a failure: the JSON artifacts are
// the primary output and the run still succeeds without the page.
type Builder struct {
	templatePath string
	logger       *logger.Logger
}

func NewBuilder(templatePath string, logger *logger.Logger) *Builder {
	return &Builder{
		templatePath: templatePath,
		logger:       logger,
	}
}

// HTMLPath derives the study-page path from the flashcard output path.
func HTMLPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, ".json") + ".html"
}

// Build substitutes the serialized flashcards into the template and writes
// the page beside the flashcard file. Returns the written path, or "" when
// the template is absent.
func (b *Builder) Build(cards []models.Flashcard, outputPath string) (string, error) {
	template, err := os.ReadFile(b.templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			b.logger.Warn("Template %s not found, skipping HTML build", b.templatePath)
			return "", nil
		}
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	if cards == nil {
		cards = []models.Flashcard{}
	}

	data, err := json.Marshal(cards)
	if err != nil {
		return "", fmt.Errorf("failed to marshal flashcards: %w", err)
	}

	// Escape to pure ASCII so the page renders correctly regardless of how
	// the file is served or re-encoded.
	html := strings.Replace(string(template), PlaceholderToken, escapeNonASCII(string(data)), 1)

	htmlPath := HTMLPath(outputPath)
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write HTML app: %w", err)
	}

	b.logger.Info("HTML app saved to: %s", htmlPath)
	return htmlPath, nil
}

// escapeNonASCII rewrites every rune above 0x7F as a \uXXXX JSON escape,
// using surrogate pairs for runes beyond the basic multilingual plane.
func escapeNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xFFFF:
			r -= 0x10000
			fmt.Fprintf(&b, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			fmt.Fprintf(&b, `\u%04x`, r)
		}
	}
	return b.String()
}
