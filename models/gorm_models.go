// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormMatchRecord is the persisted form of a finished match.
type GormMatchRecord struct {
	gorm.Model
	MatchID  string `gorm:"uniqueIndex;not null"`
	XName    string `gorm:"index;not null"`
	OName    string `gorm:"index;not null"`
	Winner   int    `gorm:"not null"` // 0/1/2 draw/X/O
	Moves    int    `gorm:"default:0"`
	Duration int    `gorm:"default:0"` // seconds
}
