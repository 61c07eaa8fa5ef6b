package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CreditType string

const (
	CreditTypeAdminAdjustment CreditType = "ADMIN_ADJUSTMENT"
	CreditTypeSpend           CreditType = "SPEND"
)

type CreditHistory struct {
	bun.BaseModel `bun:"table:credit_history"`
	ID            string     `bun:"id,pk" json:"id"`
	UserID        string     `bun:"user_id,notnull" json:"user_id"`
	Amount        int        `bun:"amount,notnull" json:"amount"`
	Type          CreditType `bun:"type,notnull" json:"type"`
	Description   string     `bun:"description" json:"description"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// LedgerAudit compares the stored balance with what the ledger says it should be.
type LedgerAudit struct {
	UserID         string `json:"user_id"`
	Balance        int    `json:"balance"`
	InitialCredits int    `json:"initial_credits"`
	LedgerSum      int    `json:"ledger_sum"`
	Consistent     bool   `json:"consistent"`
}
