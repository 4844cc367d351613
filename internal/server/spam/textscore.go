package spam

import (
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`https?://\S+`)

// LinkDensityScorer scores free text by how much of it is hyperlinks. Spam
// profiles and diary posts are mostly links; genuine mapping notes are
// mostly prose. The score is the percentage of characters that belong to
// URLs, so it ranges 0..100.
type LinkDensityScorer struct{}

func NewLinkDensityScorer() *LinkDensityScorer { return &LinkDensityScorer{} }

func (LinkDensityScorer) Score(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	linkChars := 0
	for _, m := range linkPattern.FindAllString(trimmed, -1) {
		linkChars += len(m)
	}

	return linkChars * 100 / len(trimmed)
}
