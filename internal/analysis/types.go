package analysis

import (
	"fmt"
	"strings"
)

// Category is the coarse kind of emergency described by a beacon.
type Category string

const (
	CategoryMedical       Category = "MEDICAL"
	CategoryEnvironmental Category = "ENVIRONMENTAL"
	CategorySecurity      Category = "SECURITY"
	CategoryOther         Category = "OTHER"
)

// Priority ranks how urgently a beacon needs attention.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Assessment is the result of analyzing an emergency description.
type Assessment struct {
	Category Category `json:"type"`
	Priority Priority `json:"priority"`
	Summary  string   `json:"summary"`
}

// ParseCategory accepts a category name in any letter case.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryMedical, CategoryEnvironmental, CategorySecurity, CategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("unknown emergency category %q", s)
}

// ParsePriority accepts a priority name in any letter case.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}
