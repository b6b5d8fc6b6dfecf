package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteSummary(t *testing.T) {
	body := "You have done 3 transactions worth Rs 1,250.50 using your UPI Lite Wallet/s on 26-May-25-HDFC Bank."

	summary := ParseLiteSummary(body)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.TxCount)
	assert.Equal(t, 1250.50, summary.TotalAmount)
	assert.Equal(t, "HDFC", summary.Bank)
	assert.Equal(t, time.Date(2025, time.May, 26, 0, 0, 0, 0, time.Local), summary.Day)
}

func TestParseLiteSummaryVariants(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		count  int
		total  float64
		bank   string
		day    time.Time
	}{
		{
			name:  "singular transaction without wallet suffix",
			body:  "1 transaction worth Rs.500 using UPI Lite Wallet on 2-Jan-24-ICICI Bank",
			count: 1, total: 500, bank: "ICICI",
			day: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "INR currency marker",
			body:  "5 transactions worth INR 2,000 using your UPI Lite Wallet/s on 31-Dec-25-Axis Bank",
			count: 5, total: 2000, bank: "Axis",
			day: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "two word bank name",
			body:  "2 transactions worth Rs 80.25 using your UPI Lite Wallet/s on 7-Feb-25-Punjab National Bank",
			count: 2, total: 80.25, bank: "Punjab National",
			day: time.Date(2025, time.February, 7, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			summary := ParseLiteSummary(tc.body)
			require.NotNil(t, summary)
			assert.Equal(t, tc.count, summary.TxCount)
			assert.Equal(t, tc.total, summary.TotalAmount)
			assert.Equal(t, tc.bank, summary.Bank)
			assert.Equal(t, tc.day, summary.Day)
		})
	}
}

func TestParseLiteSummaryRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"plain transaction sms", "Rs.500.00 debited from A/c for UPI to XYZ. Ref 123456"},
		{"unknown month", "3 transactions worth Rs 100 using your UPI Lite Wallet/s on 26-Xyz-25-HDFC Bank"},
		{"day out of range", "3 transactions worth Rs 100 using your UPI Lite Wallet/s on 32-May-25-HDFC Bank"},
		{"empty body", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, ParseLiteSummary(tc.body))
		})
	}
}
