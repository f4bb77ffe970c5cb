package model

import (
	"fmt"
)

// Message is one conversation turn as the client sends it. Content accepts
// either a plain string or a list of content blocks; TextBlocks normalizes
// both into the same canonical form.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// TextBlock is the only content variant the backend dialect consumes.
type TextBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// TextBlocks normalizes the message content into text blocks:
//   - a plain string becomes a single block
//   - a block list keeps text-bearing items in order and drops the rest
//   - anything else degrades to its string representation
//
// Normalization is idempotent: feeding the output back in yields the same
// blocks.
func (m Message) TextBlocks() []TextBlock {
	return normalizeContent(m.Content)
}

func normalizeContent(content any) []TextBlock {
	switch v := content.(type) {
	case nil:
		return nil
	case string:
		return []TextBlock{{Text: v}}
	case []TextBlock:
		out := make([]TextBlock, 0, len(v))
		for _, blk := range v {
			out = append(out, TextBlock{Text: blk.Text})
		}
		return out
	case []any:
		out := make([]TextBlock, 0, len(v))
		for _, item := range v {
			switch blk := item.(type) {
			case string:
				out = append(out, TextBlock{Text: blk})
			case map[string]any:
				if text, ok := blk["text"].(string); ok {
					out = append(out, TextBlock{Text: text})
				}
			case TextBlock:
				out = append(out, TextBlock{Text: blk.Text})
			}
		}
		return out
	default:
		return []TextBlock{{Text: fmt.Sprint(v)}}
	}
}

// NormalizeSystem turns the system field (string or block list) into text
// blocks, returning nil for an absent or blank prompt so callers can omit
// the field entirely.
func NormalizeSystem(system any) []TextBlock {
	if s, ok := system.(string); ok && s == "" {
		return nil
	}
	blocks := normalizeContent(system)
	if len(blocks) == 0 {
		return nil
	}
	return blocks
}
