package model

import (
	"time"

	"github.com/google/uuid"
)

// Condition describes the physical state of a game.
type Condition string

const (
	ConditionMint Condition = "mint"
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
	ConditionPoor Condition = "poor"
)

// ValidCondition reports whether c is one of the known condition values.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionMint, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Game is a catalogued video game. Every game has exactly one owner.
type Game struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"column:title" json:"title"`
	Publisher string    `gorm:"column:publisher" json:"publisher"`
	Year      int       `gorm:"column:year" json:"year"`
	System    string    `gorm:"column:system" json:"system"`
	Condition Condition `gorm:"column:condition" json:"condition"`
	Price     float64   `gorm:"column:price" json:"price"`
	Rating    int       `gorm:"column:rating" json:"rating"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Game) TableName() string {
	return "games"
}
