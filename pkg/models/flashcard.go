package models

import (
	"sort"
	"strconv"
)

// Flashcard is a single generated question/answer record. Field presence is
// not enforced at ingestion; a missing topic is mapped to "Unknown" when the
// topic summary is computed.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic"`
}

// PageMap maps 1-based page numbers, formatted as decimal strings, to page
// content: extracted slide text in direct-text mode, or a base64-encoded PNG
// payload staged for vision extraction.
type PageMap map[string]string

// SortedKeys returns the page keys in ascending numeric order. Keys are
// compared by their parsed integer value, not lexically, so "10" sorts after
// "9" regardless of formatting.
func (m PageMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// Merge copies every entry of other into m, overwriting on duplicate keys.
func (m PageMap) Merge(other PageMap) {
	for k, v := range other {
		m[k] = v
	}
}

// TopicCount is one row of the end-of-run topic frequency summary.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
