package postgres

import (
	"context"

	"github.com/proctorhub/room-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaperRepository struct {
	db *pgxpool.Pool
}

func NewPaperRepository(db *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{db: db}
}

func (r *PaperRepository) Save(ctx context.Context, p *domain.Paper) error {
	query := `
		INSERT INTO papers (qp_code, image)
		VALUES ($1, $2)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, p.QPCode, p.Image).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *PaperRepository) GetByCode(ctx context.Context, qpCode string) (*domain.Paper, error) {
	var p domain.Paper
	query := `SELECT id, qp_code, image, created_at FROM papers WHERE qp_code=$1`
	err := r.db.QueryRow(ctx, query, qpCode).
		Scan(&p.ID, &p.QPCode, &p.Image, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPaperNotFound
		}
		return nil, err
	}
	return &p, nil
}
