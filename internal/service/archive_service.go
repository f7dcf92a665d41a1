package service

import (
	"context"
	"strings"

	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/postgres"
)

// ArchiveService persists proctoring submissions and serves exam papers.
// It is optional: the HTTP layer answers 501 when it is not wired.
type ArchiveService struct {
	submissions *postgres.SubmissionRepository
	papers      *postgres.PaperRepository
}

func NewArchiveService(submissions *postgres.SubmissionRepository, papers *postgres.PaperRepository) *ArchiveService {
	return &ArchiveService{submissions: submissions, papers: papers}
}

func (s *ArchiveService) SaveSubmission(ctx context.Context, rollNumber, roomID, image string) (domain.Submission, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return domain.Submission{}, domain.ErrEmptyRollNumber
	}

	sub := domain.Submission{
		RollNumber: rollNumber,
		RoomID:     roomID,
		Image:      image,
	}
	if err := s.submissions.Save(ctx, &sub); err != nil {
		return domain.Submission{}, err
	}
	return sub, nil
}

func (s *ArchiveService) ListSubmissions(ctx context.Context, roomID string) ([]domain.Submission, error) {
	return s.submissions.ListByRoom(ctx, roomID)
}

func (s *ArchiveService) GetPaper(ctx context.Context, qpCode string) (*domain.Paper, error) {
	return s.papers.GetByCode(ctx, qpCode)
}
