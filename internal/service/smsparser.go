package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"smsledger/internal/models"

	"go.uber.org/zap"
)

const maxDescriptionLen = 150

// Builtin transaction patterns, tried after user patterns. Capture group 1
// is the amount; group 2, when present, is a direction keyword; group 3, when
// present, is a reference number.
var builtinPatterns = []string{
	`(?i)(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)\s*(?:is\s+|was\s+|has\s+been\s+)?(debited|credited|sent|paid|spent|transferred|received|recvd)(?:.*?\bref\w*[:.\s]+(\w+))?`,
	`(?i)(?:debited|credited)\s+(?:by|with|for)?\s*(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)`,
	`(?i)payment\s+of\s+(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)`,
	`(?i)(?:sent|received|paid|spent)\s+(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)`,
	`(?i)(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)`,
}

var debitKeywords = []string{"debit", "sent", "paid", "spent", "transfer"}
var creditKeywords = []string{"credit", "recvd", "received"}

var debitPhrases = []string{"debited", "payment of", "sent to", "spent on", "paid to"}
var creditPhrases = []string{"credited", "received from", "you've received"}

// SMSParser turns free-text bank SMS into candidate transactions by trying
// an ordered list of regular expressions.
type SMSParser struct {
	logger *zap.Logger
}

func NewSMSParser(logger *zap.Logger) *SMSParser {
	return &SMSParser{logger: logger}
}

// Parse tries user patterns then builtins against the raw body and returns
// an unpersisted transaction candidate, or nil when nothing usable matches.
// Invalid user patterns are skipped so one bad expression never blocks the
// rest of the list.
func (p *SMSParser) Parse(body, sender string, ts time.Time, customPatterns []string, bankName *string) *models.Transaction {
	var amount float64
	var dirToken, note string
	matched := false

	for _, expr := range effectivePatterns(customPatterns) {
		re, err := regexp.Compile(expr)
		if err != nil {
			p.logger.Debug("Skipping invalid pattern", zap.String("pattern", expr), zap.Error(err))
			continue
		}

		match := re.FindStringSubmatch(body)
		if match == nil || len(match) < 2 {
			// No match, or the pattern captures nothing usable.
			continue
		}

		parsed, err := parseAmount(match[1])
		if err != nil || parsed <= 0 {
			// Matched but the amount group is unusable; let later
			// patterns have a go.
			continue
		}

		amount = parsed
		if len(match) > 2 {
			dirToken = strings.ToLower(match[2])
		}
		if len(match) > 3 {
			note = strings.TrimSpace(match[3])
		}
		matched = true
		break
	}

	if !matched {
		return nil
	}

	direction := inferDirection(dirToken, body)
	if direction == models.DirectionUnknown && !strings.Contains(strings.ToLower(body), "upi") {
		// Keyword inference failed and nothing ties the message to a
		// payment rail; treat as non-financial.
		return nil
	}

	return &models.Transaction{
		Amount:       amount,
		Direction:    direction,
		OccurredAt:   ts,
		Description:  flattenDescription(body),
		Counterparty: sender,
		Note:         note,
		BankName:     bankName,
	}
}

// effectivePatterns unions user patterns with the builtins, user patterns
// first, deduplicated on the compiled source preserving first occurrence.
func effectivePatterns(custom []string) []string {
	seen := make(map[string]bool, len(custom)+len(builtinPatterns))
	out := make([]string, 0, len(custom)+len(builtinPatterns))

	for _, expr := range custom {
		// User patterns are compiled case-insensitively. A pattern stored
		// with the flag already spelled out keeps its source intact so it
		// still deduplicates against the builtins.
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		if !seen[expr] {
			seen[expr] = true
			out = append(out, expr)
		}
	}
	for _, expr := range builtinPatterns {
		if !seen[expr] {
			seen[expr] = true
			out = append(out, expr)
		}
	}
	return out
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// inferDirection resolves DEBIT/CREDIT from the captured keyword first, then
// from phrases in the full body, else UNKNOWN.
func inferDirection(token, body string) models.Direction {
	if token != "" {
		for _, kw := range debitKeywords {
			if strings.Contains(token, kw) {
				return models.DirectionDebit
			}
		}
		for _, kw := range creditKeywords {
			if strings.Contains(token, kw) {
				return models.DirectionCredit
			}
		}
	}

	lower := strings.ToLower(body)
	for _, phrase := range debitPhrases {
		if strings.Contains(lower, phrase) {
			return models.DirectionDebit
		}
	}
	for _, phrase := range creditPhrases {
		if strings.Contains(lower, phrase) {
			return models.DirectionCredit
		}
	}

	return models.DirectionUnknown
}

// flattenDescription collapses the body to a single trimmed line capped at
// 150 characters.
func flattenDescription(body string) string {
	desc := strings.ReplaceAll(body, "\r\n", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")
	desc = strings.TrimSpace(sanitizeUTF8(desc))

	runes := []rune(desc)
	if len(runes) > maxDescriptionLen {
		desc = string(runes[:maxDescriptionLen])
	}
	return desc
}
