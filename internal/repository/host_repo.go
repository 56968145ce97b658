package repository

import (
	"context"

	"MedalTally/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HostRepository 届次仓储
type HostRepository interface {
	Upsert(ctx context.Context, h *model.Host) error
	Get(ctx context.Context, id string) (*model.Host, error)
	GetBySlug(ctx context.Context, slug string) (*model.Host, error)
	// List 按年份倒序；season 为空则不过滤
	List(ctx context.Context, season model.Season) ([]*model.Host, error)
}

type hostRepository struct {
	db *gorm.DB
}

func NewHostRepository(db *gorm.DB) HostRepository {
	return &hostRepository{db: db}
}

func (r *hostRepository) Upsert(ctx context.Context, h *model.Host) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "slug", "location", "season", "year", "start_date", "end_date", "updated_at"}),
	}).Create(h).Error
}

func (r *hostRepository) Get(ctx context.Context, id string) (*model.Host, error) {
	var h model.Host
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *hostRepository) GetBySlug(ctx context.Context, slug string) (*model.Host, error) {
	var h model.Host
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&h).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *hostRepository) List(ctx context.Context, season model.Season) ([]*model.Host, error) {
	db := r.db.WithContext(ctx).Model(&model.Host{})
	if season != "" {
		db = db.Where("season = ?", season)
	}
	var list []*model.Host
	if err := db.Order("year DESC").Order("season ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
