package mysql

import (
	"context"
	"errors"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/repository"
	"github.com/dealhive/dealhive/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type dealRepository struct {
	DB *gorm.DB
}

var _ domain.DealRepository = (*dealRepository)(nil)

func NewDealRepository(db *gorm.DB) *dealRepository {
	return &dealRepository{
		DB: db,
	}
}

func (r *dealRepository) Fetch(ctx context.Context, cursor string, num int64) ([]domain.Deal, error) {
	var deals []model.Deal
	decodedCursor, err := repository.DecodeCursor(cursor)
	if err != nil && cursor != "" {
		return nil, domain.ErrBadParamInput
	}

	query := r.DB.WithContext(ctx).Model(&model.Deal{})
	if cursor != "" {
		query = query.Where("created_at < ?", decodedCursor)
	}
	err = query.
		Order("created_at DESC").
		Limit(int(num)).
		Find(&deals).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Deal, len(deals))
	for i := range deals {
		res[i] = deals[i].ToDomain()
	}
	return res, nil
}

func (r *dealRepository) GetByID(ctx context.Context, id int64) (domain.Deal, error) {
	var deal model.Deal
	if err := r.DB.WithContext(ctx).First(&deal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Deal{}, domain.ErrNotFound
		}
		return domain.Deal{}, err
	}
	res := deal.ToDomain()

	var images []model.DealImage
	err := r.DB.WithContext(ctx).
		Where("deal_id = ?", id).
		Order("position ASC").
		Find(&images).Error
	if err != nil {
		return domain.Deal{}, err
	}
	res.Images = make([]domain.Image, len(images))
	for i := range images {
		res.Images[i] = images[i].ToDomain()
	}

	return res, nil
}

// AddHeat bumps the temperature column. The legacy table stores it as
// VARCHAR, hence the cast dance.
func (r *dealRepository) AddHeat(ctx context.Context, id int64, delta int64) error {
	result := r.DB.WithContext(ctx).Model(&model.Deal{}).
		Where("id = ?", id).
		Update("temperature", gorm.Expr("CAST(CAST(temperature AS SIGNED) + ? AS CHAR)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *dealRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	var ids []int64
	err := r.DB.WithContext(ctx).Model(&model.Deal{}).
		Where("id > ?", cursor).
		Order("id ASC").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return ids, err
}
