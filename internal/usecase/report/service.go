package report

import (
	"context"
	"time"

	"github.com/dealhive/dealhive/domain"
)

type Service struct {
	reportRepo  domain.ReportRepository
	commentRepo domain.CommentRepository
	bloomRepo   domain.BloomRepository
}

var _ domain.ReportUsecase = (*Service)(nil)

func NewService(reportRepo domain.ReportRepository, commentRepo domain.CommentRepository, bloomRepo domain.BloomRepository) *Service {
	return &Service{
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
		bloomRepo:   bloomRepo,
	}
}

func (s *Service) File(ctx context.Context, r *domain.Report) error {
	if r.UserID == 0 || r.Reason == "" {
		return domain.ErrBadParamInput
	}

	switch r.ItemType {
	case domain.ReportItemComment:
		if _, err := s.commentRepo.GetByID(ctx, r.ItemID); err != nil {
			return err
		}
	case domain.ReportItemDeal:
		exists, err := s.bloomRepo.Exists(ctx, r.ItemID)
		if err == nil && !exists {
			return domain.ErrNotFound
		}
	default:
		return domain.ErrBadParamInput
	}

	r.CreatedAt = time.Now()
	return s.reportRepo.Store(ctx, r)
}
