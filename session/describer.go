package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// KeywordDescriber summarizes a session by the topics its user turns touch.
type KeywordDescriber struct {
	// Topics maps a topic label to lower-case trigger keywords.
	Topics map[string][]string
	// Order fixes the order topics are reported in.
	Order []string
	// MaxExcerpt bounds the last-message excerpt in runes.
	MaxExcerpt int
}

var _ Describer = (*KeywordDescriber)(nil)

// NewKeywordDescriber returns a describer tuned for conference questions.
func NewKeywordDescriber() *KeywordDescriber {
	return &KeywordDescriber{
		Order: []string{"weather", "dining", "sessions", "profile"},
		Topics: map[string][]string{
			"weather":  {"weather", "temperature", "rain", "forecast", "wear", "天气", "温度", "下雨", "穿"},
			"dining":   {"restaurant", "food", "eat", "dinner", "lunch", "breakfast", "cafe", "coffee", "餐厅", "吃", "美食", "咖啡"},
			"sessions": {"session", "agenda", "keynote", "talk", "workshop", "track", "议程", "会议", "演讲", "课程"},
			"profile":  {"my id", "user id", "interest", "prefer", "兴趣", "偏好", "用户"},
		},
		MaxExcerpt: 80,
	}
}

// Describe implements Describer.
func (k *KeywordDescriber) Describe(turns []Turn) (Descriptor, error) {
	fold := cases.Fold()
	hits := make(map[string]int)
	lastUser := ""

	for _, t := range turns {
		if t.Role != RoleUser {
			continue
		}
		lastUser = t.Text
		text := fold.String(t.Text)
		words := tokenize(text)
		for topic, keywords := range k.Topics {
			for _, kw := range keywords {
				if matchKeyword(text, words, fold.String(kw)) {
					hits[topic]++
					break
				}
			}
		}
	}

	var topics []string
	for _, topic := range k.Order {
		if hits[topic] > 0 {
			topics = append(topics, topic)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d turns", len(turns))
	if len(topics) > 0 {
		parts := make([]string, len(topics))
		for i, topic := range topics {
			parts[i] = fmt.Sprintf("%s×%d", topic, hits[topic])
		}
		fmt.Fprintf(&b, "; topics: %s", strings.Join(parts, ", "))
	}
	if lastUser != "" {
		fmt.Fprintf(&b, "; last question: %s", excerpt(lastUser, k.MaxExcerpt))
	}

	return Descriptor{Summary: b.String(), Topics: topics}, nil
}

// matchKeyword reports whether kw occurs in text. ASCII keywords match whole
// words, the last word also as a prefix ("rain" matches "rainy" but not
// "train"). Keywords with non-ASCII runes, such as Han, match as substrings.
func matchKeyword(text string, words []string, kw string) bool {
	if kw == "" {
		return false
	}
	if !isASCII(kw) {
		return strings.Contains(text, kw)
	}
	parts := tokenize(kw)
	if len(parts) == 0 {
		return false
	}
	for i := 0; i+len(parts) <= len(words); i++ {
		if wordsMatch(words[i:i+len(parts)], parts) {
			return true
		}
	}
	return false
}

func wordsMatch(words, parts []string) bool {
	last := len(parts) - 1
	for j, p := range parts {
		if j == last {
			return strings.HasPrefix(words[j], p)
		}
		if words[j] != p {
			return false
		}
	}
	return true
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
