package domain

import "time"

type Participant struct {
	RoomID     string
	RollNumber string
	JoinedAt   time.Time
}
