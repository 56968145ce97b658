package repository

import (
	"context"
	"strings"

	"MedalTally/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DisciplineRepository 分项仓储
type DisciplineRepository interface {
	Upsert(ctx context.Context, d *model.Discipline) error
	Get(ctx context.Context, code string) (*model.Discipline, error)
	// GetByName 名称不区分大小写精确匹配
	GetByName(ctx context.Context, name string) (*model.Discipline, error)
}

type disciplineRepository struct {
	db *gorm.DB
}

func NewDisciplineRepository(db *gorm.DB) DisciplineRepository {
	return &disciplineRepository{db: db}
}

func (r *disciplineRepository) Upsert(ctx context.Context, d *model.Discipline) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "sport", "updated_at"}),
	}).Create(d).Error
}

func (r *disciplineRepository) Get(ctx context.Context, code string) (*model.Discipline, error) {
	var d model.Discipline
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *disciplineRepository) GetByName(ctx context.Context, name string) (*model.Discipline, error) {
	var d model.Discipline
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("code ASC").
		First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}
