package repository

import (
	"context"

	"MedalTally/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CountryRepository 国家仓储
type CountryRepository interface {
	Upsert(ctx context.Context, c *model.Country) error
	Get(ctx context.Context, code string) (*model.Country, error)
	List(ctx context.Context) ([]*model.Country, error)
}

type countryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) Upsert(ctx context.Context, c *model.Country) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "iso", "flag_url", "updated_at"}),
	}).Create(c).Error
}

func (r *countryRepository) Get(ctx context.Context, code string) (*model.Country, error) {
	var c model.Country
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *countryRepository) List(ctx context.Context) ([]*model.Country, error) {
	var list []*model.Country
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
