package mysql

import (
	"context"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/repository/mysql/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type reportRepository struct {
	DB *gorm.DB
}

var _ domain.ReportRepository = (*reportRepository)(nil)

func NewReportRepository(db *gorm.DB) *reportRepository {
	return &reportRepository{
		DB: db,
	}
}

const errDupEntry = 1062

func (r *reportRepository) Store(ctx context.Context, report *domain.Report) error {
	m := model.NewReportFromDomain(report)
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		// (user_id, item_type, item_id) carries a unique index
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == errDupEntry {
			return domain.ErrConflict
		}
		return err
	}
	report.ID = m.ID
	return nil
}
