package models

import "time"

const (
	ReportTypeMoveIn  = "move-in"
	ReportTypeMoveOut = "move-out"

	// Cycle de vie : draft → sent → viewed, jamais en arrière.
	StatusDraft  = "draft"
	StatusSent   = "sent"
	StatusViewed = "viewed"
)

// WalkthroughStep est une étape de la visite (pièce à inspecter).
type WalkthroughStep struct {
	Room      string `json:"room"`
	Completed bool   `json:"completed"`
}

type Report struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	PropertyID      uint              `gorm:"not null;index" json:"propertyId"`
	ReportType      string            `gorm:"not null;default:move-in" json:"reportType"`
	ReportDate      time.Time         `gorm:"not null" json:"reportDate"`
	AccessToken     string            `gorm:"uniqueIndex;size:255;not null" json:"accessToken"`
	Status          string            `gorm:"not null;default:draft" json:"status"`
	LastViewed      *time.Time        `json:"lastViewed"`
	AdditionalNotes string            `json:"additionalNotes"`
	Walkthrough     []WalkthroughStep `gorm:"serializer:json" json:"walkthrough"`
	PdfURL          string            `gorm:"size:255" json:"pdfUrl"`
	ReportSent      *time.Time        `json:"reportSent"`
	ReportViewed    *time.Time        `json:"reportViewed"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	Property *Property   `json:"property,omitempty"`
	Photos   []Photo     `json:"photos,omitempty"`
	Logs     []ReportLog `json:"logs,omitempty"`
}
