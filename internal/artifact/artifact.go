package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

// UnknownTopic is the sentinel bucket for cards whose reply carried no topic
// field.
const UnknownTopic = "Unknown"

// Store writes the run artifacts. The page-map artifact and the flashcard
// artifact are independent checkpoints: each is written as soon as its stage
// completes and neither depends on the other existing.
type Store struct {
	logger *logger.Logger
}

func NewStore(logger *logger.Logger) *Store {
	return &Store{logger: logger}
}

// SlidesPath derives the intermediate page-content path from the flashcard
// output path.
func SlidesPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, ".json") + "_slides.json"
}

// SavePageMap writes the extracted page text as a pretty-printed JSON object.
func (s *Store) SavePageMap(path string, pages models.PageMap) error {
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal slide content: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write slide content: %w", err)
	}

	s.logger.Info("Slide content saved to: %s", path)
	return nil
}

// SaveFlashcards writes the generated cards as a pretty-printed JSON array.
// An empty set persists as [], not null.
func (s *Store) SaveFlashcards(path string, cards []models.Flashcard) error {
	if cards == nil {
		cards = []models.Flashcard{}
	}

	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal flashcards: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write flashcards: %w", err)
	}

	s.logger.Info("%d flashcards saved to: %s", len(cards), path)
	return nil
}

// TopicSummary counts cards per topic, descending by count with ties broken
// by topic name for stable reporting.
func TopicSummary(cards []models.Flashcard) []models.TopicCount {
	counts := make(map[string]int)
	for _, card := range cards {
		topic := card.Topic
		if topic == "" {
			topic = UnknownTopic
		}
		counts[topic]++
	}

	summary := make([]models.TopicCount, 0, len(counts))
	for topic, count := range counts {
		summary = append(summary, models.TopicCount{Topic: topic, Count: count})
	}

	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Topic < summary[j].Topic
	})

	return summary
}
