package repository

import (
	"context"

	"MedalTally/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AthleteRepository 运动员仓储
type AthleteRepository interface {
	Upsert(ctx context.Context, a *model.Athlete) error
	Get(ctx context.Context, id string) (*model.Athlete, error)
	// FindByIdentity 历史数据没有外部编码，按 (姓名, 性别, 国家) 匹配
	FindByIdentity(ctx context.Context, name, gender, countryCode string) (*model.Athlete, error)
}

type athleteRepository struct {
	db *gorm.DB
}

func NewAthleteRepository(db *gorm.DB) AthleteRepository {
	return &athleteRepository{db: db}
}

func (r *athleteRepository) Upsert(ctx context.Context, a *model.Athlete) error {
	if err := requireExists(ctx, r.db, &model.Country{}, "code", a.CountryCode, "country"); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "short_name", "display_name", "gender", "country_code", "disciplines",
			"events", "birth_date", "height", "weight", "is_alternate", "updated_at",
		}),
	}).Create(a).Error
}

func (r *athleteRepository) Get(ctx context.Context, id string) (*model.Athlete, error) {
	var a model.Athlete
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *athleteRepository) FindByIdentity(ctx context.Context, name, gender, countryCode string) (*model.Athlete, error) {
	var a model.Athlete
	if err := r.db.WithContext(ctx).
		Where("name = ? AND gender = ? AND country_code = ?", name, gender, countryCode).
		Order("id ASC").
		First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
