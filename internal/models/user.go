package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel  `bun:"table:user"`
	ID             string    `bun:"id,pk" json:"id"`
	Password       string    `bun:"password,notnull" json:"-"`
	Credits        int       `bun:"credits,notnull" json:"credits"`
	InitialCredits int       `bun:"initial_credits,notnull" json:"initial_credits"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	// read view over the claim table, rewritten on every play
	IsClaimed          bool      `bun:"is_claimed,notnull" json:"is_claimed"`
	AssignedRewardName *string   `bun:"assigned_reward_name" json:"assigned_reward_name"`
	LastPlayedCategory *Category `bun:"last_played_category" json:"last_played_category"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
