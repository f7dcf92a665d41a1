package domain

import "time"

type LogEntry struct {
	RoomID     string
	Message    string
	Status     string
	RollNumber string
	CreatedAt  time.Time
}
