package llmprovider

import (
	"encoding/json"
	"strings"
)

// Content is a sealed interface for message content. A nil Content means absent.
// Only Text and TextList implement it.
type Content interface {
	isContent()
}

// Text is a single string of content.
type Text string

func (Text) isContent() {}

// TextList is an ordered sequence of strings.
type TextList []string

func (TextList) isContent() {}

// ContentString renders c as a single string. Text is returned as is, TextList is
// encoded as a JSON array, absent content is the empty string.
func ContentString(c Content) string {
	switch x := c.(type) {
	case Text:
		return string(x)
	case TextList:
		if x == nil {
			return "[]"
		}
		var b strings.Builder
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		// Encoding a []string cannot fail.
		_ = enc.Encode([]string(x))
		return strings.TrimSuffix(b.String(), "\n")
	default:
		return ""
	}
}
