package service

import (
	"sort"
	"strings"

	"smsledger/internal/models"
)

// SuggestCategory evaluates rules in descending priority order against the
// transaction and returns the first matching rule's category, or nil. Ties at
// equal priority resolve in the rules' stored order, which keeps
// categorization reproducible. The rule Logic field is carried but not
// evaluated while rules hold a single keyword each.
func SuggestCategory(tx *models.Transaction, rules []models.CategoryRule) *string {
	ordered := make([]models.CategoryRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, rule := range ordered {
		if ruleMatches(rule, tx) {
			category := rule.Category
			return &category
		}
	}
	return nil
}

func ruleMatches(rule models.CategoryRule, tx *models.Transaction) bool {
	var value string
	switch rule.Field {
	case models.FieldDescription:
		value = tx.Description
	case models.FieldSenderOrReceiver:
		value = tx.Counterparty
	default:
		return false
	}

	value = strings.ToLower(value)
	keyword := strings.ToLower(rule.Keyword)
	if keyword == "" {
		return false
	}

	switch rule.Matcher {
	case models.MatcherContains:
		return strings.Contains(value, keyword)
	case models.MatcherEquals:
		return value == keyword
	case models.MatcherStartsWith:
		return strings.HasPrefix(value, keyword)
	case models.MatcherEndsWith:
		return strings.HasSuffix(value, keyword)
	}
	return false
}
