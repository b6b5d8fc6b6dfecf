package service

import "strings"

// bankTokens maps sender-address fragments to canonical bank names. Order
// matters: tokens are not mutually exclusive substrings, so more specific
// tokens sit above their substring risks (AUBANK before AU).
var bankTokens = []struct {
	token string
	name  string
}{
	{"HDFC", "HDFC Bank"},
	{"ICICI", "ICICI Bank"},
	{"SBIN", "State Bank of India"},
	{"SBI", "State Bank of India"},
	{"AXIS", "Axis Bank"},
	{"KOTAK", "Kotak Mahindra Bank"},
	{"PAYTM", "Paytm Payments Bank"},
	{"CITI", "Citi Bank"},
	{"YES", "Yes Bank"},
	{"IDFC", "IDFC First Bank"},
	{"INDUS", "IndusInd Bank"},
	{"BARODA", "Bank of Baroda"},
	{"BOB", "Bank of Baroda"},
	{"PNB", "Punjab National Bank"},
	{"UNION", "Union Bank of India"},
	{"CANARA", "Canara Bank"},
	{"FEDERAL", "Federal Bank"},
	{"RBL", "RBL Bank"},
	{"IDBI", "IDBI Bank"},
	{"AUBANK", "AU Small Finance Bank"},
	{"AU", "AU Small Finance Bank"},
}

// IdentifyBank maps an SMS sender address like "VM-HDFCBK" to a canonical
// bank name. Returns nil when no token matches.
func IdentifyBank(sender string) *string {
	upper := strings.ToUpper(sender)
	for _, entry := range bankTokens {
		if strings.Contains(upper, entry.token) {
			name := entry.name
			return &name
		}
	}
	return nil
}
