package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"smsledger/internal/models"
)

// Matches the aggregate SMS banks send for UPI Lite wallet usage, e.g.
// "5 transactions worth Rs 1,234.50 using your UPI Lite Wallet/s on 26-May-25-HDFC Bank"
var liteSummaryPattern = regexp.MustCompile(
	`(?i)(\d+)\s+transactions?\s+worth\s+(?:rs\.?|inr)\s*([\d,]+(?:\.\d+)?)\s+using\s+(?:your\s+)?UPI\s+Lite\s+Wallet(?:/s)?\s+on\s+(\d{1,2})-([A-Za-z]{3})-(\d{2})-((?:[A-Za-z]+\s)?[A-Za-z]+)\s+Bank`)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseLiteSummary extracts a daily per-bank UPI Lite summary from an SMS
// body. Any sub-parse failure rejects the whole message; partial summaries
// are never produced.
func ParseLiteSummary(body string) *models.LiteSummary {
	match := liteSummaryPattern.FindStringSubmatch(body)
	if match == nil {
		return nil
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	total, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", ""), 64)
	if err != nil {
		return nil
	}

	day, err := strconv.Atoi(match[3])
	if err != nil || day < 1 || day > 31 {
		return nil
	}

	month, ok := monthAbbrevs[strings.ToLower(match[4])]
	if !ok {
		return nil
	}

	year, err := strconv.Atoi(match[5])
	if err != nil {
		return nil
	}

	return &models.LiteSummary{
		Day:         time.Date(2000+year, month, day, 0, 0, 0, 0, time.Local),
		Bank:        strings.TrimSpace(match[6]),
		TxCount:     count,
		TotalAmount: total,
	}
}
