// Package model defines the domain types used across the application.
package model

import "time"

// Status is the review status code reported by the homework API.
type Status string

// Known review statuses.
const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Homework is a single submission as returned by the review API.
type Homework struct {
	LessonName string `json:"lesson_name"`
	Status     Status `json:"status"`
}

// StatusChange is a detected change of the latest homework's status.
type StatusChange struct {
	ID         int64
	LessonName string
	Status     Status
	Message    string
	DetectedAt time.Time
}
