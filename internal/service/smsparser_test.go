package service

import (
	"strings"
	"testing"
	"time"

	"smsledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testParser() *SMSParser {
	return NewSMSParser(zap.NewNop())
}

func TestParseDebitWithReference(t *testing.T) {
	ts := time.Date(2025, time.June, 1, 10, 30, 0, 0, time.Local)
	bank := "HDFC Bank"

	tx := testParser().Parse("Rs.500.00 debited from A/c for UPI to XYZ. Ref 123456", "VM-HDFCBK", ts, nil, &bank)
	require.NotNil(t, tx)
	assert.Equal(t, 500.00, tx.Amount)
	assert.Equal(t, models.DirectionDebit, tx.Direction)
	assert.Equal(t, ts, tx.OccurredAt)
	assert.Equal(t, "VM-HDFCBK", tx.Counterparty)
	assert.Equal(t, "123456", tx.Note)
	require.NotNil(t, tx.BankName)
	assert.Equal(t, "HDFC Bank", *tx.BankName)
}

func TestParseCredit(t *testing.T) {
	tx := testParser().Parse("INR 2,000 credited to your account", "AX-ICICIB", time.Now(), nil, nil)
	require.NotNil(t, tx)
	assert.Equal(t, 2000.0, tx.Amount)
	assert.Equal(t, models.DirectionCredit, tx.Direction)
	assert.Empty(t, tx.Note)
	assert.Nil(t, tx.BankName)
}

func TestParseDirectionFromBodyPhrase(t *testing.T) {
	// The matching pattern captures no direction keyword, so inference
	// falls back to phrases in the full body.
	tx := testParser().Parse("Payment of Rs 350.75 made via card ending 1234, sent to ACME Stores", "VM-HDFCBK", time.Now(), nil, nil)
	require.NotNil(t, tx)
	assert.Equal(t, 350.75, tx.Amount)
	assert.Equal(t, models.DirectionDebit, tx.Direction)
}

func TestParseUnknownDirectionRequiresUPI(t *testing.T) {
	// Amount present but no direction signal and no payment rail marker.
	assert.Nil(t, testParser().Parse("Get a loan of Rs 50,000 instantly!", "AD-LOANS", time.Now(), nil, nil))

	// Same shape with a UPI marker is kept as UNKNOWN.
	tx := testParser().Parse("Rs 150 UPI txn on your account", "VM-HDFCBK", time.Now(), nil, nil)
	require.NotNil(t, tx)
	assert.Equal(t, models.DirectionUnknown, tx.Direction)
}

func TestParseNonFinancialMessage(t *testing.T) {
	assert.Nil(t, testParser().Parse("Your OTP is 482913. Do not share it.", "VM-HDFCBK", time.Now(), nil, nil))
	assert.Nil(t, testParser().Parse("", "VM-HDFCBK", time.Now(), nil, nil))
}

func TestParseCustomPatternPrecedence(t *testing.T) {
	// A body both a custom pattern and a builtin would match; the custom
	// result must win.
	custom := []string{`amount\s+([\d,]+(?:\.\d+)?)\s+(withdrawn)`}

	tx := testParser().Parse("Alert: amount 750.00 withdrawn via UPI, Rs 999 balance", "VM-HDFCBK", time.Now(), custom, nil)
	require.NotNil(t, tx)
	assert.Equal(t, 750.00, tx.Amount)
	assert.Equal(t, models.DirectionUnknown, tx.Direction)
}

func TestParseInvalidCustomPatternSkipped(t *testing.T) {
	custom := []string{`([unclosed`, `broken(`}

	tx := testParser().Parse("Rs 500 debited for UPI", "VM-HDFCBK", time.Now(), custom, nil)
	require.NotNil(t, tx)
	assert.Equal(t, 500.0, tx.Amount)
	assert.Equal(t, models.DirectionDebit, tx.Direction)
}

func TestParseDuplicatePatternsTriedOnce(t *testing.T) {
	exprs := effectivePatterns([]string{`rs\s+(\d+)`, `rs\s+(\d+)`})

	seen := make(map[string]int)
	for _, e := range exprs {
		seen[e]++
	}
	for expr, count := range seen {
		assert.Equal(t, 1, count, "pattern %q listed more than once", expr)
	}
}

func TestParseCustomPatternMatchingBuiltinTriedOnce(t *testing.T) {
	// A user pattern equal to a builtin, with or without the flag spelled
	// out, must not enter the list a second time.
	custom := []string{
		builtinPatterns[0],
		strings.TrimPrefix(builtinPatterns[1], "(?i)"),
	}
	exprs := effectivePatterns(custom)

	seen := make(map[string]int)
	for _, e := range exprs {
		seen[e]++
	}
	assert.Equal(t, 1, seen[builtinPatterns[0]])
	assert.Equal(t, 1, seen[builtinPatterns[1]])
	assert.Len(t, exprs, len(builtinPatterns))
}

func TestParseDescriptionFlattened(t *testing.T) {
	body := "Rs 500 debited\nfor UPI payment\r\nto XYZ " + strings.Repeat("x", 200)

	tx := testParser().Parse(body, "VM-HDFCBK", time.Now(), nil, nil)
	require.NotNil(t, tx)
	assert.NotContains(t, tx.Description, "\n")
	assert.LessOrEqual(t, len([]rune(tx.Description)), 150)
}

func TestParseAmountWithThousandsSeparators(t *testing.T) {
	tx := testParser().Parse("Rs 1,23,456.78 debited from A/c via UPI", "VM-HDFCBK", time.Now(), nil, nil)
	require.NotNil(t, tx)
	assert.Equal(t, 123456.78, tx.Amount)
}
