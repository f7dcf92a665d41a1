package domain

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomExists      = errors.New("room id already taken")
	ErrEmptyRoomName   = errors.New("room name is required")
	ErrEmptyLogMessage = errors.New("log message is required")
	ErrEmptyRollNumber = errors.New("roll number is required")
	ErrAlreadyJoined   = errors.New("participant already joined the room")
	ErrNotInRoom       = errors.New("participant not in the room")
	ErrPaperNotFound   = errors.New("paper not found")
)
