package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Claim struct {
	bun.BaseModel `bun:"table:claim"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	RewardID      *string   `bun:"reward_id" json:"reward_id"`
	RewardName    string    `bun:"reward_name,notnull" json:"reward_name"`
	Category      Category  `bun:"category,notnull" json:"category"`
	Cost          int       `bun:"cost,notnull" json:"cost"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type PlaySource string

const (
	PlaySourceAssignment PlaySource = "assignment"
	PlaySourceDraw       PlaySource = "draw"
)

// PlayResult is what a successful play hands back to the player.
type PlayResult struct {
	Reward  Reward     `json:"reward"`
	Cost    int        `json:"cost"`
	Balance int        `json:"balance"`
	Source  PlaySource `json:"source"`
	ClaimID string     `json:"claim_id"`
}
