package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchHistory records how far a user has watched a piece of content.
// One row per (user, content); upserts bump PositionSeconds and UpdatedAt.
type WatchHistory struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ContentID       uuid.UUID `json:"content_id"`
	PositionSeconds int       `json:"position_seconds"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Certificate is a completion certificate. CertNo is globally unique and is
// what the public verification endpoint looks up.
type Certificate struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ContentID uuid.UUID `json:"content_id"`
	CertNo    string    `json:"cert_no"`
	IssuedAt  time.Time `json:"issued_at"`
	PDFURL    *string   `json:"pdf_url,omitempty"`
}
