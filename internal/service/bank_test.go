package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyBank(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"VM-HDFCBK", "HDFC Bank"},
		{"AX-ICICIB", "ICICI Bank"},
		{"JD-SBIINB", "State Bank of India"},
		{"VK-SBIN", "State Bank of India"},
		{"AD-AXISBK", "Axis Bank"},
		{"VM-KOTAKB", "Kotak Mahindra Bank"},
		{"BP-PAYTMB", "Paytm Payments Bank"},
		{"AD-IDFCFB", "IDFC First Bank"},
		{"VM-INDUSB", "IndusInd Bank"},
		{"JD-CANBNK-CANARA", "Canara Bank"},
		{"VM-RBLBNK", "RBL Bank"},
		{"AD-AUBANK", "AU Small Finance Bank"},
	}

	for _, tc := range tests {
		t.Run(tc.sender, func(t *testing.T) {
			got := IdentifyBank(tc.sender)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestIdentifyBankCaseInsensitive(t *testing.T) {
	got := IdentifyBank("vm-hdfcbk")
	require.NotNil(t, got)
	assert.Equal(t, "HDFC Bank", *got)
}

func TestIdentifyBankUnknownSender(t *testing.T) {
	assert.Nil(t, IdentifyBank("VM-SWIGGY"))
	assert.Nil(t, IdentifyBank("+919812345678"))
	assert.Nil(t, IdentifyBank(""))
}
