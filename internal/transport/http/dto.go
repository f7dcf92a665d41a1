package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required"`
}

type RoomItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	Participants int       `json:"participants"`
}

type RoomResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	CreatedAt    time.Time         `json:"created_at"`
	Participants []ParticipantItem `json:"participants"`
}

type RoomsListResponse struct {
	Items []RoomItem `json:"items"`
}

type ValidateRoomResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AddParticipantRequest struct {
	RollNumber string `json:"roll_number" validate:"required"`
}

type ParticipantItem struct {
	RoomID     string    `json:"room_id"`
	RollNumber string    `json:"roll_number"`
	JoinedAt   time.Time `json:"joined_at"`
}

type ParticipantsResponse struct {
	Items []ParticipantItem `json:"items"`
}

type AppendLogRequest struct {
	Message    string `json:"message" validate:"required"`
	Status     string `json:"status"`
	RollNumber string `json:"roll_number"`
}

type LogItem struct {
	RoomID     string    `json:"room_id"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	RollNumber string    `json:"roll_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type LogsResponse struct {
	Items []LogItem `json:"items"`
}

type SubmissionRequest struct {
	RollNumber string `json:"roll_number" validate:"required"`
	RoomID     string `json:"room_id" validate:"required"`
	Image      string `json:"image" validate:"required"`
}

type SubmissionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type PaperResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}
