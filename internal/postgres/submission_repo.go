package postgres

import (
	"context"

	"github.com/proctorhub/room-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubmissionRepository struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Save(ctx context.Context, s *domain.Submission) error {
	query := `
		INSERT INTO submissions (roll_number, room_id, image)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, s.RollNumber, s.RoomID, s.Image).
		Scan(&s.ID, &s.CreatedAt)
}

func (r *SubmissionRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Submission, error) {
	query := `
		SELECT id, roll_number, room_id, image, created_at
		FROM submissions
		WHERE room_id=$1
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.RollNumber, &s.RoomID, &s.Image, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
