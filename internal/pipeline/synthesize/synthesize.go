// internal/pipeline/synthesize/synthesize.go
package synthesize

import (
	"fmt"
	"strings"

	"krishisahay/internal/models"
	"krishisahay/internal/pipeline/categorize"
)

const (
	// maxSnippets is how many retrieved snippets make it into an answer.
	maxSnippets = 3
	// excerptRunes is how much of each snippet body is quoted.
	excerptRunes = 200
)

// Compose produces the final answer text for a query. With snippets it
// renders a category intro followed by up to three excerpts; without, it
// falls back to the static per-category template. Deterministic given
// identical inputs.
func Compose(category categorize.Category, snippets []models.KnowledgeSnippet) string {
	if len(snippets) == 0 {
		return Fallback(category)
	}

	var b strings.Builder
	b.WriteString(intro(category))
	b.WriteString("\n\n")

	n := len(snippets)
	if n > maxSnippets {
		n = maxSnippets
	}
	for i := 0; i < n; i++ {
		s := snippets[i]
		fmt.Fprintf(&b, "%d. %s: %s...\n", i+1, s.Title, excerpt(s.Content))
	}

	return strings.TrimRight(b.String(), "\n")
}

// excerpt takes the first excerptRunes characters of a body. Rune-based so
// Devanagari and other non-latin scripts are never split mid-character.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptRunes {
		return content
	}
	return string(runes[:excerptRunes])
}
