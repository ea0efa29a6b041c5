// Package assistant turns free-text customer requests into kitchen
// instructions and offers service prompts to staff. All of it is rule based.
package assistant

import (
	"regexp"
	"strings"
)

const StandardPreparation = "KITCHEN: STANDARD PREPARATION"

const specialNoteLimit = 50

var (
	extraPattern = regexp.MustCompile(`\bextra\s+(\w+)`)
	noPattern    = regexp.MustCompile(`\bno\s+(\w+)`)
	morePattern  = regexp.MustCompile(`\bmore\s+(\w+)`)
	lessPattern  = regexp.MustCompile(`\bless\s+(\w+)`)

	quickRemovePattern = regexp.MustCompile(`(?:\bno|\bwithout)\s+(\w+)`)
)

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Customize converts a customer's request into a structured instruction for
// the kitchen, e.g. "no onions, extra cheese, not spicy" becomes
// "KITCHEN: SPICE: LOW | ADD: EXTRA CHEESE | REMOVE: ONIONS".
func Customize(customText string) string {
	text := strings.ToLower(strings.TrimSpace(customText))
	if text == "" {
		return StandardPreparation
	}

	var parts []string
	if spice := spiceLevel(text); spice != "" {
		parts = append(parts, spice)
	}
	parts = append(parts, ingredientChanges(text)...)
	if cooking := cookingPreference(text); cooking != "" {
		parts = append(parts, cooking)
	}
	if portion := portionSize(text); portion != "" {
		parts = append(parts, portion)
	}

	if len(parts) == 0 {
		return StandardPreparation + " - Special note: " + truncate(customText, specialNoteLimit)
	}
	return "KITCHEN: " + strings.Join(parts, " | ")
}

func spiceLevel(text string) string {
	switch {
	case containsAny(text, "not spicy", "less spicy", "mild"):
		return "SPICE: LOW"
	case containsAny(text, "extra spicy", "very hot", "extra hot"):
		return "SPICE: EXTRA HIGH"
	case containsAny(text, "spicy", "hot"):
		return "SPICE: HIGH"
	case strings.Contains(text, "medium") && strings.Contains(text, "spice"):
		return "SPICE: MEDIUM"
	}
	return ""
}

func ingredientChanges(text string) []string {
	var out []string
	rules := []struct {
		pattern *regexp.Regexp
		prefix  string
	}{
		{extraPattern, "ADD: EXTRA "},
		{noPattern, "REMOVE: "},
		{morePattern, "INCREASE: "},
		{lessPattern, "REDUCE: "},
	}
	for _, rule := range rules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			out = append(out, rule.prefix+strings.ToUpper(m[1]))
		}
	}
	return out
}

func cookingPreference(text string) string {
	switch {
	case strings.Contains(text, "well done"):
		return "COOKING: WELL DONE"
	case strings.Contains(text, "crispy"):
		return "COOKING: EXTRA CRISPY"
	case strings.Contains(text, "soft"):
		return "COOKING: SOFT/TENDER"
	case strings.Contains(text, "grilled"):
		return "METHOD: GRILLED"
	}
	return ""
}

func portionSize(text string) string {
	switch {
	case containsAny(text, "large portion", "extra large", "big"):
		return "PORTION: LARGE"
	case containsAny(text, "small portion", "less food", "light"):
		return "PORTION: SMALL"
	case strings.Contains(text, "double"):
		return "PORTION: DOUBLE"
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// QuickCustomize is the reduced keyword matcher used when the server cannot
// be reached. It recognises one of each kind of request at most.
func QuickCustomize(customText string) string {
	text := strings.ToLower(strings.TrimSpace(customText))
	var b strings.Builder

	if containsAny(text, "spicy", "hot") {
		switch {
		case containsAny(text, "not", "less", "mild"):
			b.WriteString("SPICE LEVEL: LOW. ")
		case containsAny(text, "extra", "very", "more"):
			b.WriteString("SPICE LEVEL: HIGH. ")
		default:
			b.WriteString("SPICE LEVEL: MEDIUM. ")
		}
	}
	if m := extraPattern.FindStringSubmatch(text); m != nil {
		b.WriteString("ADD-ON: " + strings.ToUpper(m[1]) + " (Extra). ")
	}
	if m := quickRemovePattern.FindStringSubmatch(text); m != nil {
		b.WriteString("REMOVE: " + strings.ToUpper(m[1]) + ". ")
	}
	switch {
	case containsAny(text, "well done", "crispy"):
		b.WriteString("COOKING: WELL DONE. ")
	case containsAny(text, "soft", "tender"):
		b.WriteString("COOKING: SOFT. ")
	}
	switch {
	case containsAny(text, "large", "big"):
		b.WriteString("PORTION: LARGE. ")
	case containsAny(text, "small", "light"):
		b.WriteString("PORTION: SMALL. ")
	}

	if b.Len() == 0 {
		return StandardPreparation
	}
	return "KITCHEN: " + strings.TrimSpace(b.String())
}
