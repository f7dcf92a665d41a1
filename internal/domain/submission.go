package domain

import "time"

// Submission is a student's proctoring snapshot persisted for review.
type Submission struct {
	ID         string
	RollNumber string
	RoomID     string
	Image      string // base64-encoded capture
	CreatedAt  time.Time
}

// Paper is an exam paper looked up by its question-paper code.
type Paper struct {
	ID        string
	QPCode    string
	Image     string
	CreatedAt time.Time
}
