package convert

import (
	"strings"

	"annograph/domain/core/graph"
)

// ToText renders the passage's tokenized text back into plain strings, one
// per paragraph, tokens joined by single spaces
func ToText(p *graph.Passage) ([]string, error) {
	l0, err := graph.Layer0Of(p)
	if err != nil {
		return nil, err
	}

	var paragraphs []string
	var tokens []string
	current := 0
	for _, t := range l0.All() {
		if t.Paragraph() != current {
			if len(tokens) > 0 {
				paragraphs = append(paragraphs, strings.Join(tokens, " "))
			}
			tokens = tokens[:0]
			current = t.Paragraph()
		}
		tokens = append(tokens, t.Text())
	}
	if len(tokens) > 0 {
		paragraphs = append(paragraphs, strings.Join(tokens, " "))
	}
	return paragraphs, nil
}
