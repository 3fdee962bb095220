package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

type transactionResponse struct {
	ID                   uuid.UUID   `json:"id"`
	Amount               int64       `json:"amount"`
	Type                 ledger.Type `json:"type"`
	Category             string      `json:"category"`
	Title                string      `json:"title"`
	Date                 time.Time   `json:"date"`
	Note                 string      `json:"note,omitempty"`
	LinkedFixedExpenseID *uuid.UUID  `json:"linked_fixed_expense_id,omitempty"`
	PaymentMonth         *month.Key  `json:"payment_month,omitempty"`
	LinkedGoalID         *uuid.UUID  `json:"linked_goal_id,omitempty"`
}

func toResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:                   tx.ID,
		Amount:               tx.Amount,
		Type:                 tx.Type,
		Category:             tx.Category,
		Title:                tx.Title,
		Date:                 tx.Date,
		Note:                 tx.Note,
		LinkedFixedExpenseID: tx.LinkedFixedExpenseID,
		PaymentMonth:         tx.PaymentMonth,
		LinkedGoalID:         tx.LinkedGoalID,
	}
}

func toResponseList(txs []ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
