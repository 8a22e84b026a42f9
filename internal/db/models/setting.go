// Package models contains database model definitions.
package models

// Setting is a named value the service keeps in the database, e.g. the generated session signing secret.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:191;not null"`
	Value []byte
}
