package intent

import (
	"regexp"
	"strings"

	"contactbook/services/contact-service/domain/model"
)

// nameRun is two or more capitalized tokens. Tokens may carry '@' so that an
// email caught by a loose pattern is visible and can be rejected.
const nameRun = `([A-Z][\w'.@-]*(?:\s+[A-Z][\w'.@-]*)+)`

// capRun is one or more capitalized tokens
const capRun = `([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*)*)`

// searchKeyword opens every keyword-anchored search term pattern
const searchKeyword = `(?i:search(?:es|ing)?(?:\s+for)?|find(?:s|ing)?|look(?:s|ing)?\s+for)`

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:phone(?:\s+number)?|mobile|cell|tel(?:ephone)?|number)\b\s*(?:is|to|of|:|=)?\s*(\+?\d[\d\s\-().]{5,}\d)`),
	regexp.MustCompile(`(?i)\b(?:to|is)\s+(\+?\d[\d\s\-().]{5,}\d)`),
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:named|called)\s+` + nameRun),
	regexp.MustCompile(`(?i:add|create|register|insert)\s+(?i:(?:a\s+)?(?:new\s+)?(?:user|contact|person))\s+` + nameRun),
	regexp.MustCompile(`(?i:user|contact|person)\s+` + nameRun),
}

var nameTail = regexp.MustCompile(`(?i)\s+(?:with|email|phone|and|address|notes?)\b.*$`)

// addressPatterns are tried in order. The "address of <who> to <where>" form
// must win over the general one, which would otherwise keep "of <who> to".
var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:address|location|at)\b\s*(?:is\s+|to\s+|:\s*)?["“]([^"”]+)["”]`),
	regexp.MustCompile(`(?i)\b(?:address|location)\s+(?:of|for)\s+.+?\s+to\s+(.+)$`),
	regexp.MustCompile(`(?i)\b(?:address|location|at)\b\s*(?:is\s+|to\s+|:\s*)?(.+)$`),
}

// addressEnd marks where an unquoted address runs into the next field
var addressEnd = regexp.MustCompile(`(?i)\s*(?:[,;]\s*)?\b(?:and\s+|with\s+)?(?:(?:additional\s+)?notes?|phone(?:\s+number)?|mobile|cell|e-?mail|with)\b`)

var notesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:additional\s+)?notes?\b\s*(?:is\s+|are\s+|saying\s+|that\s+|:\s*)?["“]([^"”]+)["”]`),
	regexp.MustCompile(`(?i)\b(?:additional\s+)?notes?\b\s*(?:is|are|saying|that|:)?\s+(.+)$`),
}

// clearPatterns catch requests to blank an optional field, e.g. "clear the address"
var clearPatterns = map[string]*regexp.Regexp{
	"address": regexp.MustCompile(`(?i)\b(?:clear|erase|no)\s+(?:the\s+|their\s+|his\s+|her\s+)?address\b`),
	"notes":   regexp.MustCompile(`(?i)\b(?:clear|erase|no)\s+(?:the\s+|their\s+|his\s+|her\s+)?(?:additional\s+)?notes?\b`),
}

var userIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\buser\s+(?:id\s*)?#?(\d+)\b`),
	regexp.MustCompile(`(?i)\b(?:with\s+)?id\s*#?:?\s*(\d+)\b`),
}

var searchTermPatterns = []*regexp.Regexp{
	regexp.MustCompile(searchKeyword + `\b.*?\b(?i:named|called)\s+(?:["“]([^"”]+)["”]|` + capRun + `)`),
	regexp.MustCompile(searchKeyword + `\b[^"“]*["“]([^"”]+)["”]`),
	regexp.MustCompile(searchKeyword + `\s+(?:[a-z]\S*\s+)*?` + capRun),
	regexp.MustCompile(searchKeyword + `\s+(.+)$`),
	regexp.MustCompile(`["“]([^"”]+)["”]`),
}

var capitalizedRun = regexp.MustCompile(capRun)

// searchStopWords can never be a search term on their own
var searchStopWords = map[string]struct{}{
	"users": {}, "user": {}, "people": {}, "contacts": {}, "for": {}, "all": {},
}

// searchFiller is dropped from the front of a raw trailing search phrase
var searchFiller = map[string]struct{}{
	"users": {}, "user": {}, "people": {}, "contacts": {}, "contact": {}, "for": {}, "all": {},
	"me": {}, "the": {}, "a": {}, "any": {}, "named": {}, "called": {}, "with": {}, "name": {},
	"search": {}, "searching": {}, "find": {}, "finding": {}, "look": {}, "looking": {},
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

func trimValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".,;:!?")
}

func extractEmail(text string) model.Field {
	if m := emailPattern.FindString(text); m != "" {
		return model.Set(m)
	}
	return model.Field{}
}

func extractPhone(text string) model.Field {
	for _, re := range phonePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return model.Set(strings.TrimSpace(m[1]))
		}
	}
	return model.Field{}
}

func extractFullName(text string) model.Field {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := trimValue(nameTail.ReplaceAllString(m[1], ""))
		if name == "" || strings.Contains(name, "@") {
			continue
		}
		return model.Set(name)
	}
	return model.Field{}
}

func extractAddress(text string) model.Field {
	for i, re := range addressPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[1]
		if i > 0 {
			if loc := addressEnd.FindStringIndex(v); loc != nil {
				v = v[:loc[0]]
			}
			v = strings.Trim(strings.TrimSpace(v), `"“”`)
		}
		// "email address to a@b.co" names the email, not a street address
		if v = trimValue(v); v != "" && !emailPattern.MatchString(v) {
			return model.Set(v)
		}
	}
	if clearPatterns["address"].MatchString(text) {
		return model.Field{Present: true}
	}
	return model.Field{}
}

func extractNotes(text string) model.Field {
	for _, re := range notesPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := trimValue(m[1]); v != "" {
				return model.Set(v)
			}
		}
	}
	if clearPatterns["notes"].MatchString(text) {
		return model.Field{Present: true}
	}
	return model.Field{}
}

func extractUserID(text string) model.Field {
	for _, re := range userIDPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return model.Set(m[1])
		}
	}
	return model.Field{}
}

func extractSearchTerm(text string) model.Field {
	for i, re := range searchTermPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		term := firstGroup(m)
		// the raw trailing phrase still carries filler such as "users named"
		if i == 3 {
			term = stripSearchFiller(term)
		}
		if term = trimValue(term); acceptableSearchTerm(term) {
			return model.Set(term)
		}
	}

	runs := capitalizedRun.FindAllString(text, -1)
	for i := len(runs) - 1; i >= 0; i-- {
		if term := trimValue(stripSearchFiller(runs[i])); acceptableSearchTerm(term) {
			return model.Set(term)
		}
	}
	return model.Field{}
}

func stripSearchFiller(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 {
		if _, ok := searchFiller[strings.ToLower(trimValue(words[0]))]; !ok {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func acceptableSearchTerm(term string) bool {
	if term == "" {
		return false
	}
	_, stop := searchStopWords[strings.ToLower(term)]
	return !stop
}
