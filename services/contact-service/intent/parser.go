// Package intent turns chat messages into resolved intents, using keyword
// rules first and an optional language-model oracle for messages the rules miss.
package intent

import (
	"regexp"
	"strings"

	"contactbook/services/contact-service/domain/model"
)

// Confidence is the parser's own estimate of how sure it is
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// KeywordRule maps a group of trigger phrases to an intent
type KeywordRule struct {
	Intent   model.Intent
	Keywords []string
	pattern  *regexp.Regexp
}

// Matches reports whether any keyword appears in lowered as a whole word or
// phrase. The leading verb may be inflected ("searching", "deleted"), but a
// keyword embedded in a longer word ("address", "together") never matches.
func (r KeywordRule) Matches(lowered string) bool {
	return r.pattern.MatchString(lowered)
}

func newKeywordRule(intent model.Intent, keywords ...string) KeywordRule {
	alts := make([]string, len(keywords))
	for i, k := range keywords {
		words := strings.Fields(k)
		words[0] = inflected(words[0])
		for j := 1; j < len(words); j++ {
			words[j] = regexp.QuoteMeta(words[j])
		}
		alts[i] = strings.Join(words, `\s+`)
	}
	return KeywordRule{
		Intent:   intent,
		Keywords: keywords,
		pattern:  regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)\b`),
	}
}

// inflected matches word plus its regular -s, -ed and -ing forms
func inflected(word string) string {
	n := len(word)
	switch {
	case n > 1 && word[n-1] == 'e':
		return regexp.QuoteMeta(word[:n-1]) + `(?:e|es|ed|ing)`
	case n > 1 && word[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(word[n-2])):
		return regexp.QuoteMeta(word[:n-1]) + `(?:y|ies|ied|ying)`
	default:
		last := regexp.QuoteMeta(word[n-1:])
		return regexp.QuoteMeta(word) + `(?:s|es|` + last + `?ed|` + last + `?ing)?`
	}
}

// KeywordRules is checked top to bottom and the first matching rule wins.
// Reordering it changes which intent a mixed message resolves to.
var KeywordRules = []KeywordRule{
	newKeywordRule(model.IntentHelp, "help", "what can you do", "assist"),
	newKeywordRule(model.IntentCreate, "add", "create", "new user", "insert", "register"),
	newKeywordRule(model.IntentRead, "show", "list", "get", "display", "view", "all users"),
	newKeywordRule(model.IntentSearch, "search", "find", "look for"),
	newKeywordRule(model.IntentUpdate, "update", "edit", "modify", "change"),
	newKeywordRule(model.IntentDelete, "delete", "remove", "destroy", "erase"),
}

// Parsed is the heuristic verdict for one message
type Parsed struct {
	Intent     model.Intent
	Confidence Confidence
	Data       model.IntentData
}

// Parser is the rule-based classifier and field extractor. It holds no
// mutable state and is safe for concurrent use.
type Parser struct {
	rules []KeywordRule
}

// NewParser returns a parser over KeywordRules
func NewParser() *Parser {
	return &Parser{rules: KeywordRules}
}

// Classify returns the first rule's intent whose keywords occur in text
func (p *Parser) Classify(text string) (model.Intent, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return model.IntentUnknown, false
	}
	for _, rule := range p.rules {
		if rule.Matches(lowered) {
			return rule.Intent, true
		}
	}
	return model.IntentUnknown, false
}

// Parse classifies text and, on a keyword hit, extracts fields from the original-case message
func (p *Parser) Parse(text string) Parsed {
	intent, ok := p.Classify(text)
	if !ok {
		return Parsed{Intent: model.IntentUnknown, Confidence: ConfidenceLow}
	}

	message := strings.TrimSpace(text)
	data := model.IntentData{
		FullName:        extractFullName(message),
		Email:           extractEmail(message),
		PhoneNumber:     extractPhone(message),
		Address:         extractAddress(message),
		AdditionalNotes: extractNotes(message),
		UserID:          extractUserID(message),
	}
	if intent == model.IntentSearch {
		data.SearchTerm = extractSearchTerm(message)
	}

	return Parsed{Intent: intent, Confidence: ConfidenceHigh, Data: data}
}
