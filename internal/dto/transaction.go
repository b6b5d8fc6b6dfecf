package dto

import (
	"time"

	"smsledger/internal/models"
)

type TransactionResponse struct {
	ID           string  `json:"id"`
	Amount       float64 `json:"amount"`
	Direction    string  `json:"direction"`
	OccurredAt   string  `json:"occurred_at"`
	Description  string  `json:"description"`
	Counterparty string  `json:"counterparty,omitempty"`
	Category     *string `json:"category"`
	Note         string  `json:"note,omitempty"`
	BankName     *string `json:"bank_name"`
	Archived     bool    `json:"archived"`
	DeletedAt    *string `json:"deleted_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:           tx.ID.String(),
		Amount:       tx.Amount,
		Direction:    string(tx.Direction),
		OccurredAt:   tx.OccurredAt.Format(time.RFC3339),
		Description:  tx.Description,
		Counterparty: tx.Counterparty,
		Category:     tx.Category,
		Note:         tx.Note,
		BankName:     tx.BankName,
		Archived:     tx.Archived,
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.DeletedAt != nil {
		deleted := tx.DeletedAt.Format(time.RFC3339)
		resp.DeletedAt = &deleted
	}
	return resp
}

func NewTransactionResponses(txs []*models.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, NewTransactionResponse(tx))
	}
	return responses
}

type UpdateCategoryRequest struct {
	Category *string `json:"category"`
}

type SummaryResponse struct {
	ID          string  `json:"id"`
	Day         string  `json:"day"`
	Bank        string  `json:"bank"`
	TxCount     int     `json:"tx_count"`
	TotalAmount float64 `json:"total_amount"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewSummaryResponse(s *models.LiteSummary) SummaryResponse {
	return SummaryResponse{
		ID:          s.ID.String(),
		Day:         s.Day.Format("2006-01-02"),
		Bank:        s.Bank,
		TxCount:     s.TxCount,
		TotalAmount: s.TotalAmount,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}
