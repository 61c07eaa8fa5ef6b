package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const StockUnlimited = -1

var ErrInvalidCategory = errors.New("invalid category")

type Category string

const (
	CategoryBox     Category = "BOX"
	CategoryWheel   Category = "WHEEL"
	CategoryPlinko  Category = "PLINKO"
	CategoryScratch Category = "SCRATCH"
)

// Categories lists every game category in display order.
var Categories = []Category{CategoryBox, CategoryWheel, CategoryPlinko, CategoryScratch}

func (v Category) Valid() bool {
	switch v {
	case CategoryBox, CategoryWheel, CategoryPlinko, CategoryScratch:
		return true
	default:
		return false
	}
}

func (v Category) String() string {
	return string(v)
}

// ParseCategory accepts a case-insensitive category name and rejects anything outside the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

type Reward struct {
	bun.BaseModel `bun:"table:reward,alias:reward"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Category      Category  `bun:"category,notnull" json:"category"`
	ImageURL      string    `bun:"image_url" json:"image_url"`
	Stock         int       `bun:"stock,notnull" json:"stock"`
	Price         int       `bun:"price,notnull" json:"price"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

func (r *Reward) Unlimited() bool {
	return r.Stock == StockUnlimited
}

func (r *Reward) Available() bool {
	return r.Unlimited() || r.Stock > 0
}
