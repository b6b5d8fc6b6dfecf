package dto

import (
	"time"

	"smsledger/internal/models"
)

type IngestMessage struct {
	Sender    string `json:"sender" validate:"required"`
	Body      string `json:"body" validate:"required"`
	Timestamp int64  `json:"timestamp" validate:"required"` // epoch milliseconds
}

func (m IngestMessage) ToModel() models.RawMessage {
	return models.RawMessage{
		Sender:    m.Sender,
		Body:      m.Body,
		Timestamp: time.UnixMilli(m.Timestamp),
	}
}

type IngestRequest struct {
	Messages []IngestMessage `json:"messages" validate:"required"`
}

func (r IngestRequest) ToModels() []models.RawMessage {
	messages := make([]models.RawMessage, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, m.ToModel())
	}
	return messages
}

type IngestAcceptedResponse struct {
	Queued int    `json:"queued"`
	Mode   string `json:"mode"`
}

type IngestResponse struct {
	NewTransactions int `json:"new_transactions"`
	NewSummaries    int `json:"new_summaries"`
	Archived        int `json:"archived"`
}
