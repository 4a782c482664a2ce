package models

import "time"

// DamageMark est une annotation positionnelle sur la photo (coordonnées
// relatives 0..1 côté client).
type DamageMark struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Type string  `json:"type"`
}

type Photo struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	ReportID          uint         `gorm:"not null;index" json:"reportId"`
	Filename          string       `gorm:"not null" json:"filename"`
	OriginalName      string       `gorm:"not null" json:"originalName"`
	Path              string       `gorm:"not null" json:"path"`
	Size              int64        `gorm:"not null" json:"size"`
	Room              string       `gorm:"not null" json:"room"`
	DamageDescription string       `json:"damageDescription"`
	Location          string       `json:"location"`
	DamageMarks       []DamageMark `gorm:"serializer:json" json:"damageMarks"`
	DamageTypes       []string     `gorm:"serializer:json" json:"damageTypes"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}
