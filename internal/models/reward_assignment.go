package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "ASSIGNED"
	AssignmentStatusClaimed  AssignmentStatus = "CLAIMED"
	AssignmentStatusExpired  AssignmentStatus = "EXPIRED"
)

func (v AssignmentStatus) Valid() bool {
	switch v {
	case AssignmentStatusAssigned, AssignmentStatusClaimed, AssignmentStatusExpired:
		return true
	default:
		return false
	}
}

func (v AssignmentStatus) String() string {
	return string(v)
}

type RewardAssignment struct {
	bun.BaseModel `bun:"table:reward_assignment,alias:ra"`
	ID            string           `bun:"id,pk" json:"id"`
	UserID        string           `bun:"user_id,notnull" json:"user_id"`
	RewardID      string           `bun:"reward_id,notnull" json:"reward_id"`
	Status        AssignmentStatus `bun:"status,notnull" json:"status"`
	ClaimedAt     *time.Time       `bun:"claimed_at" json:"claimed_at"`
	CreatedAt     time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Reward *Reward `bun:"rel:belongs-to,join:reward_id=id" json:"reward,omitempty"`
}
