package model

import "time"

// Event is one observed platform fact. Events are created by detectors,
// never mutated, and deleted only by the transfer pipeline after a
// confirmed delivery.
type Event struct {
	ID             int64
	Detector       string
	DetectedAt     time.Time
	Action         string
	OccurredAt     time.Time
	Description    string
	AdditionalInfo string
}
