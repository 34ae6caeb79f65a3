package artifact_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/examdeck/internal/artifact"
	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

func artifactTestLogger() *logger.Logger {
	return logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[artifact-test] "),
		logger.WithFlags(0),
	)
}

var _ = Describe("Artifact Store", func() {
	var (
		store   *artifact.Store
		tempDir string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "examdeck-artifact-*")
		Expect(err).NotTo(HaveOccurred())
		store = artifact.NewStore(artifactTestLogger())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	Context("SlidesPath", func() {
		It("derives the intermediate path beside the output", func() {
			Expect(artifact.SlidesPath("/tmp/run/flashcards.json")).To(Equal("/tmp/run/flashcards_slides.json"))
		})
	})

	Context("SavePageMap", func() {
		It("writes pretty-printed JSON that round-trips", func() {
			path := filepath.Join(tempDir, "flashcards_slides.json")
			pages := models.PageMap{"1": "intro", "3": "closing"}

			Expect(store.SavePageMap(path, pages)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("\n  "))

			var loaded models.PageMap
			Expect(json.Unmarshal(data, &loaded)).To(Succeed())
			Expect(loaded).To(Equal(pages))
		})

		It("does not depend on the flashcard artifact existing", func() {
			// Extraction checkpoint written, generation then fails: the
			// page-map file must still be present and valid on its own.
			slidesPath := filepath.Join(tempDir, "flashcards_slides.json")
			cardsPath := filepath.Join(tempDir, "flashcards.json")

			Expect(store.SavePageMap(slidesPath, models.PageMap{"1": "intro"})).To(Succeed())

			data, err := os.ReadFile(slidesPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Valid(data)).To(BeTrue())

			_, err = os.Stat(cardsPath)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Context("SaveFlashcards", func() {
		It("writes a JSON array with the expected fields", func() {
			path := filepath.Join(tempDir, "flashcards.json")
			cards := []models.Flashcard{
				{Question: "Q1", Answer: "A1", Topic: "T1"},
				{Question: "Q2", Answer: "A2", Topic: "T2"},
			}

			Expect(store.SaveFlashcards(path, cards)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			var loaded []models.Flashcard
			Expect(json.Unmarshal(data, &loaded)).To(Succeed())
			Expect(loaded).To(Equal(cards))
		})

		It("persists an empty set as an empty array", func() {
			path := filepath.Join(tempDir, "flashcards.json")

			Expect(store.SaveFlashcards(path, nil)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("[]"))
		})
	})

	Context("TopicSummary", func() {
		It("counts topics in descending frequency order", func() {
			cards := []models.Flashcard{
				{Question: "Q1", Topic: "A"},
				{Question: "Q2", Topic: "A"},
				{Question: "Q3", Topic: "B"},
			}

			summary := artifact.TopicSummary(cards)

			Expect(summary).To(Equal([]models.TopicCount{
				{Topic: "A", Count: 2},
				{Topic: "B", Count: 1},
			}))
		})

		It("buckets cards without a topic under Unknown", func() {
			cards := []models.Flashcard{
				{Question: "Q1"},
				{Question: "Q2", Topic: "Regression"},
				{Question: "Q3"},
			}

			summary := artifact.TopicSummary(cards)

			Expect(summary[0]).To(Equal(models.TopicCount{Topic: artifact.UnknownTopic, Count: 2}))
			Expect(summary[1]).To(Equal(models.TopicCount{Topic: "Regression", Count: 1}))
		})

		It("orders ties by topic name", func() {
			cards := []models.Flashcard{
				{Topic: "Zeta"},
				{Topic: "Alpha"},
			}

			summary := artifact.TopicSummary(cards)

			Expect(summary[0].Topic).To(Equal("Alpha"))
			Expect(summary[1].Topic).To(Equal("Zeta"))
		})

		It("is empty for an empty set", func() {
			Expect(artifact.TopicSummary(nil)).To(BeEmpty())
		})
	})
})
