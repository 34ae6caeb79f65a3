package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/examdeck/internal/artifact"
	"github.com/kpauljoseph/examdeck/internal/config"
	"github.com/kpauljoseph/examdeck/internal/extract"
	"github.com/kpauljoseph/examdeck/internal/generate"
	"github.com/kpauljoseph/examdeck/internal/llm"
	"github.com/kpauljoseph/examdeck/internal/pdf"
	"github.com/kpauljoseph/examdeck/internal/render"
	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
	"github.com/kpauljoseph/examdeck/pkg/version"
)

func main() {
	slidesPath := flag.String("slides", "", "path to course slide PDF (required)")
	apiKey := flag.String("api-key", "", "OpenAI API key or path to a file containing it (default: OPENAI_API_KEY env)")
	outlinePath := flag.String("outline", "", "path to exam outline/focus file (optional)")
	outputPath := flag.String("output", "", "output JSON path (default: flashcards.json beside the slides)")
	model := flag.String("model", "", "OpenAI model (overrides config)")
	textOnly := flag.Bool("text-only", false, "extract embedded text instead of using the vision API (faster/cheaper)")
	configPath := flag.String("config", "", "path to config file (optional)")
	templatePath := flag.String("template", "", "path to HTML template (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo())
		return
	}

	log := logger.New(logger.WithPrefix("[examdeck] "))
	log.SetVerbose(*verbose)

	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	if *slidesPath == "" {
		log.Fatal("-slides is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal("Error loading config: %v", err)
		}
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *templatePath != "" {
		cfg.TemplatePath = *templatePath
	}

	if _, err := os.Stat(*slidesPath); os.IsNotExist(err) {
		log.Fatal("Slide file not found: %s", *slidesPath)
	}

	key, err := resolveAPIKey(*apiKey)
	if err != nil {
		log.Fatal("%v", err)
	}
	client := llm.NewOpenAIClient(key)

	output := *outputPath
	if output == "" {
		output = filepath.Join(filepath.Dir(*slidesPath), "flashcards.json")
	}

	outline := ""
	if *outlinePath != "" {
		data, err := os.ReadFile(*outlinePath)
		if err != nil {
			log.Warn("Could not read outline %s, continuing without it: %v", *outlinePath, err)
		} else {
			outline = strings.TrimSpace(string(data))
			log.Info("Loaded exam outline from: %s", *outlinePath)
		}
	}

	ctx := context.Background()
	source := pdf.NewSource(*slidesPath, cfg.RenderDPI, log)

	if count, err := source.PageCount(); err != nil {
		log.Warn("PDF preflight failed: %v", err)
	} else {
		log.Info("PDF has %d pages", count)
	}

	log.Info("[Step 1/3] Extracting slide content...")
	pages := extractSlides(ctx, source, client, cfg, *textOnly, log)

	if len(pages) == 0 {
		log.Fatal("No slide content extracted")
	}

	store := artifact.NewStore(log)
	if err := store.SavePageMap(artifact.SlidesPath(output), pages); err != nil {
		log.Fatal("Error saving slide content: %v", err)
	}

	log.Info("[Step 2/3] Generating flashcards...")
	generator := generate.New(client, cfg, outline, log)
	cards, err := generator.Run(ctx, pages)
	if err != nil {
		log.Fatal("Error generating flashcards: %v", err)
	}

	if err := store.SaveFlashcards(output, cards); err != nil {
		log.Fatal("Error saving flashcards: %v", err)
	}

	log.Info("[Step 3/3] Building HTML app...")
	builder := render.NewBuilder(cfg.TemplatePath, log)
	if _, err := builder.Build(cards, output); err != nil {
		log.Fatal("Error building HTML app: %v", err)
	}

	summary := artifact.TopicSummary(cards)
	log.Info("DONE! %d flashcards across %d topics", len(cards), len(summary))
	for _, tc := range summary {
		log.Info("  %s: %d", tc.Topic, tc.Count)
	}
}

// extractSlides runs extraction in the requested mode. Vision mode falls back
// to direct text extraction once if the rendering capability is unavailable.
func extractSlides(ctx context.Context, source *pdf.Source, client llm.Client, cfg *config.Config, textOnly bool, log *logger.Logger) models.PageMap {
	if textOnly {
		pages, err := source.ExtractText(ctx)
		if err != nil {
			log.Fatal("Error extracting text: %v", err)
		}
		log.Info("Extracted text from %d slides (text-only mode)", len(pages))
		return pages
	}

	rendered, err := source.RenderPages(ctx)
	if err != nil {
		if !errors.Is(err, pdf.ErrUnavailable) {
			log.Fatal("Error rendering slides: %v", err)
		}
		log.Warn("Vision rendering unavailable, falling back to text extraction: %v", err)
		pages, err := source.ExtractText(ctx)
		if err != nil {
			log.Fatal("Fallback text extraction failed: %v", err)
		}
		return pages
	}

	extractor := extract.New(client, cfg, log)
	pages, err := extractor.Run(ctx, rendered)
	if err != nil {
		log.Fatal("Error extracting slide content: %v", err)
	}
	return pages
}

// resolveAPIKey accepts either a raw key string or a path to a file
// containing the key, falling back to the OPENAI_API_KEY environment
// variable.
func resolveAPIKey(value string) (string, error) {
	if value == "" {
		value = os.Getenv("OPENAI_API_KEY")
	}
	if value == "" {
		return "", errors.New("no API key: pass -api-key or set OPENAI_API_KEY")
	}

	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		data, err := os.ReadFile(value)
		if err != nil {
			return "", fmt.Errorf("failed to read API key file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return strings.TrimSpace(value), nil
}
