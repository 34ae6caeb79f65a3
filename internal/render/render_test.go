package render_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/examdeck/internal/render"
	"github.com/kpauljoseph/examdeck/pkg/logger"
	"github.com/kpauljoseph/examdeck/pkg/models"
)

func renderTestLogger() *logger.Logger {
	return logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[render-test] "),
		logger.WithFlags(0),
	)
}

var _ = Describe("Presentation Builder", func() {
	var (
		tempDir      string
		templatePath string
		outputPath   string
	)

	writeTemplate := func(content string) {
		Expect(os.WriteFile(templatePath, []byte(content), 0644)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "examdeck-render-*")
		Expect(err).NotTo(HaveOccurred())

		templatePath = filepath.Join(tempDir, "template.html")
		outputPath = filepath.Join(tempDir, "flashcards.json")
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	It("substitutes the flashcard data into the placeholder", func() {
		writeTemplate("<script>var d = " + render.PlaceholderToken + ";</script>")

		builder := render.NewBuilder(templatePath, renderTestLogger())
		htmlPath, err := builder.Build([]models.Flashcard{
			{Question: "Q1", Answer: "A1", Topic: "T1"},
		}, outputPath)

		Expect(err).NotTo(HaveOccurred())
		Expect(htmlPath).To(Equal(filepath.Join(tempDir, "flashcards.html")))

		html, err := os.ReadFile(htmlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(html)).To(ContainSubstring(`"question":"Q1"`))
		Expect(string(html)).NotTo(ContainSubstring(render.PlaceholderToken))
	})

	It("escapes non-ASCII content for portability", func() {
		writeTemplate(render.PlaceholderToken)

		builder := render.NewBuilder(templatePath, renderTestLogger())
		htmlPath, err := builder.Build([]models.Flashcard{
			{Question: "Was ist Heteroskedastizität?", Answer: "σ² varies", Topic: "Régression"},
		}, outputPath)

		Expect(err).NotTo(HaveOccurred())

		html, err := os.ReadFile(htmlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(html)).To(ContainSubstring("\\u00e4")) // ä
		Expect(string(html)).To(ContainSubstring("\\u03c3")) // σ
		for _, r := range string(html) {
			Expect(int(r)).To(BeNumerically("<", 128))
		}
	})

	It("renders an empty set as an empty array", func() {
		writeTemplate("data:" + render.PlaceholderToken)

		builder := render.NewBuilder(templatePath, renderTestLogger())
		htmlPath, err := builder.Build(nil, outputPath)

		Expect(err).NotTo(HaveOccurred())

		html, err := os.ReadFile(htmlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(html)).To(Equal("data:[]"))
	})

	It("warns and returns no artifact when the template is missing", func() {
		builder := render.NewBuilder(filepath.Join(tempDir, "nope.html"), renderTestLogger())
		htmlPath, err := builder.Build([]models.Flashcard{{Question: "Q"}}, outputPath)

		Expect(err).NotTo(HaveOccurred())
		Expect(htmlPath).To(BeEmpty())

		_, statErr := os.Stat(strings.TrimSuffix(outputPath, ".json") + ".html")
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("replaces only the unique placeholder token", func() {
		writeTemplate("<p>keep me</p>" + render.PlaceholderToken + "<p>and me</p>")

		builder := render.NewBuilder(templatePath, renderTestLogger())
		htmlPath, err := builder.Build([]models.Flashcard{}, outputPath)

		Expect(err).NotTo(HaveOccurred())

		html, err := os.ReadFile(htmlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(html)).To(Equal("<p>keep me</p>[]<p>and me</p>"))
	})

	It("builds from the shipped template", func() {
		builder := render.NewBuilder(shippedTemplatePath(), renderTestLogger())
		htmlPath, err := builder.Build([]models.Flashcard{
			{Question: "Q1", Answer: "A1", Topic: "T1"},
		}, outputPath)

		Expect(err).NotTo(HaveOccurred())
		Expect(htmlPath).NotTo(BeEmpty())

		html, err := os.ReadFile(htmlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(html)).To(ContainSubstring("var ALL_CARDS = [{"))
	})
})

func shippedTemplatePath() string {
	return filepath.Join("..", "..", "assets", "flashcard_template.html")
}
