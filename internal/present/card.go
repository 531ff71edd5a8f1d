// Package present decides how analysis and comparison results are displayed.
package present

import "strings"

// Mode is the render mode of a result region.
type Mode string

const (
	ModeNone        Mode = "none"
	ModeRawFallback Mode = "raw-fallback"
	ModeStructured  Mode = "structured"
)

// Card is an itemized card. Either Paragraph or Items is set, never both.
type Card struct {
	Title     string   `json:"title"`
	Paragraph string   `json:"paragraph,omitempty"`
	Items     []string `json:"items,omitempty"`
	Wide      bool     `json:"wide,omitempty"`
}

// IsList reports whether the card renders as a bulleted list.
func (c Card) IsList() bool { return len(c.Items) > 0 }

// TextCard builds a card from free text. ok is false when there is nothing to show.
func TextCard(title, text string) (Card, bool) {
	if strings.TrimSpace(text) == "" {
		return Card{}, false
	}
	return Card{Title: title, Paragraph: text}, true
}

// ListCard builds a card from a sequence. Empty entries are dropped; a single
// remaining entry renders as a paragraph.
func ListCard(title string, items []string) (Card, bool) {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	if strings.TrimSpace(strings.Join(kept, "")) == "" {
		return Card{}, false
	}
	if len(kept) == 1 {
		return Card{Title: title, Paragraph: kept[0]}, true
	}
	return Card{Title: title, Items: kept}, true
}

type listRule[T any] struct {
	title string
	get   func(T) []string
	wide  bool
}

func applyRules[T any](data T, rules []listRule[T]) []Card {
	var cards []Card
	for _, r := range rules {
		card, ok := ListCard(r.title, r.get(data))
		if !ok {
			continue
		}
		card.Wide = r.wide
		cards = append(cards, card)
	}
	return cards
}
