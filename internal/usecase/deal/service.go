package deal

import (
	"context"
	"strconv"
	"strings"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/repository"
	"github.com/sirupsen/logrus"
)

type Service struct {
	dealRepo  domain.DealRepository
	dealCache domain.DealCache
	bloomRepo domain.BloomRepository
}

var _ domain.DealUsecase = (*Service)(nil)

// NewService will create a new deal service object
func NewService(dealRepo domain.DealRepository, dealCache domain.DealCache, bloomRepo domain.BloomRepository) *Service {
	return &Service{
		dealRepo:  dealRepo,
		dealCache: dealCache,
		bloomRepo: bloomRepo,
	}
}

func (s *Service) Fetch(ctx context.Context, cursor string, num int64) ([]domain.Deal, string, error) {
	res, err := s.dealRepo.Fetch(ctx, cursor, num)
	if err != nil {
		return nil, "", err
	}
	if len(res) == 0 {
		return res, "", nil
	}
	return res, repository.EncodeCursor(res[len(res)-1].CreatedAt), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Deal, error) {
	if err := s.mustExists(ctx, id); err != nil {
		return domain.Deal{}, err
	}

	res, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Deal{}, err
	}

	// Merge the heat buffered in redis but not yet flushed to mysql, so the
	// temperature the viewer sees includes their own vote.
	delta, err := s.dealCache.GetHeat(ctx, id)
	if err != nil {
		logrus.Warnf("failed to read heat buffer for deal %d: %v", id, err)
		return res, nil
	}
	if delta != 0 {
		res.Temperature = addToTemperature(res.Temperature, delta)
	}

	return res, nil
}

func (s *Service) Vote(ctx context.Context, id int64, delta int64) error {
	if delta != int64(domain.VoteHot) && delta != int64(domain.VoteCold) {
		return domain.ErrBadParamInput
	}
	if err := s.mustExists(ctx, id); err != nil {
		return err
	}

	// The delta lands in the redis buffer only; GetByID merges it into the
	// displayed temperature until the heat worker drains it to mysql.
	if _, err := s.dealCache.IncrHeat(ctx, id, delta); err != nil {
		return err
	}
	return nil
}

const bloomBatchSize = 1000

func (s *Service) InitBloomFilter(ctx context.Context) error {
	var cursor int64
	for {
		ids, err := s.dealRepo.FetchIDs(ctx, cursor, bloomBatchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
	}
}

func (s *Service) mustExists(ctx context.Context, id int64) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		return domain.ErrNotFound
	}
	return nil
}

// addToTemperature works on the legacy numeric-as-string column; an
// unparseable stored value counts as 0.
func addToTemperature(temperature string, delta int64) string {
	base, err := strconv.ParseFloat(strings.TrimSpace(temperature), 64)
	if err != nil {
		base = 0
	}
	return strconv.FormatFloat(base+float64(delta), 'f', -1, 64)
}
