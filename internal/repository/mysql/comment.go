package mysql

import (
	"context"
	"errors"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	m := model.NewCommentFromDomain(comment)
	if err := c.DB.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	comment.ID = m.ID
	return nil
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var comment model.Comment
	if err := c.DB.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, domain.ErrNotFound
	}
	domainComment := comment.ToDomain()
	return &domainComment, nil
}

func (c *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	m := model.NewCommentFromDomain(comment)
	result := c.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", m.ID).
		Select("text", "status", "pending_text", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) Delete(ctx context.Context, id int64) error {
	result := c.DB.WithContext(ctx).Delete(&model.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) FetchByDeal(ctx context.Context, dealID int64) ([]domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("deal_id = ? AND status = ?", dealID, string(domain.StatusVisible)).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res, nil
}

func (c *commentRepository) CountVisibleByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := c.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("user_id = ? AND status = ?", userID, string(domain.StatusVisible)).
		Count(&count).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return count, nil
}
