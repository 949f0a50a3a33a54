package analysis

import (
	"strings"

	"signal-link.klederson.com/internal/config"
)

type keywordSet struct {
	category Category
	keywords []string
}

// Checked in order; the first set with any hit decides the category.
var keywordSets = []keywordSet{
	{CategoryMedical, []string{
		"medical", "blood", "heart", "pain", "breath", "unconscious", "hurt",
		"injury", "broken", "cut", "bleed", "dying", "leg", "arm", "head",
	}},
	{CategoryEnvironmental, []string{
		"fire", "burn", "smoke", "flood", "water", "trap", "stuck", "cold",
		"heat", "storm", "earthquake",
	}},
	{CategorySecurity, []string{
		"gun", "shoot", "weapon", "rob", "fight", "attack", "hostage", "kidnap",
		"danger", "chase",
	}},
}

// Any of these escalates the priority to CRITICAL.
var severityModifiers = []string{
	"severe", "critical", "dying", "death", "massive", "heavy", "cannot", "cant",
}

const summaryWords = 4

// Classify maps free text to a category, priority and short summary using
// substring keyword matching. It never fails: unmatched or empty text is
// OTHER/HIGH.
func Classify(text string) Assessment {
	normalized := strings.ToLower(strings.TrimSpace(text))

	category := CategoryOther
	for _, set := range keywordSets {
		if containsAny(normalized, set.keywords) {
			category = set.category
			break
		}
	}

	priority := PriorityHigh
	if category == CategorySecurity || containsAny(normalized, severityModifiers) {
		priority = PriorityCritical
	}

	return Assessment{
		Category: category,
		Priority: priority,
		Summary:  Summarize(text),
	}
}

// Summarize returns the first four space-separated words followed by "..."
// when the text is longer, the text itself otherwise, or the placeholder
// when the text is empty.
func Summarize(text string) string {
	words := strings.Split(text, " ")
	if len(words) > summaryWords {
		return strings.Join(words[:summaryWords], " ") + "..."
	}
	if text == "" {
		return config.DefaultSummary
	}
	return text
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
