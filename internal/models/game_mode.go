package models

import (
	"time"

	"github.com/uptrace/bun"
)

const DefaultGameModeCost = 10

type GameMode struct {
	bun.BaseModel `bun:"table:game_mode"`
	ID            string    `bun:"id,pk" json:"id"`
	Category      Category  `bun:"category,notnull,unique" json:"category"`
	Cost          int       `bun:"cost,notnull" json:"cost"`
	Enabled       bool      `bun:"enabled,notnull" json:"enabled"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// GameModeUpdate holds the optional fields of an admin update; nil fields are left untouched.
type GameModeUpdate struct {
	Cost    *int  `json:"cost"`
	Enabled *bool `json:"enabled"`
}
