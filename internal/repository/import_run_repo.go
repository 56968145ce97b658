package repository

import (
	"context"

	"MedalTally/internal/model"

	"gorm.io/gorm"
)

// ImportRunRepository 导入记录仓储
type ImportRunRepository interface {
	Create(ctx context.Context, run *model.ImportRun) error
	Finish(ctx context.Context, run *model.ImportRun) error
	AddSkips(ctx context.Context, skips []*model.ImportSkip) error
	Get(ctx context.Context, id string) (*model.ImportRun, error)
	ListSkips(ctx context.Context, runID string) ([]*model.ImportSkip, error)
	ListRecent(ctx context.Context, limit int) ([]*model.ImportRun, error)
}

type importRunRepository struct {
	db *gorm.DB
}

func NewImportRunRepository(db *gorm.DB) ImportRunRepository {
	return &importRunRepository{db: db}
}

func (r *importRunRepository) Create(ctx context.Context, run *model.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *importRunRepository) Finish(ctx context.Context, run *model.ImportRun) error {
	return r.db.WithContext(ctx).Model(&model.ImportRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":      run.Status,
			"total":       run.Total,
			"upserted":    run.Upserted,
			"skipped":     run.Skipped,
			"error":       run.Error,
			"finished_at": run.FinishedAt,
		}).Error
}

func (r *importRunRepository) AddSkips(ctx context.Context, skips []*model.ImportSkip) error {
	if len(skips) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(skips, 200).Error
}

func (r *importRunRepository) Get(ctx context.Context, id string) (*model.ImportRun, error) {
	var run model.ImportRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

func (r *importRunRepository) ListSkips(ctx context.Context, runID string) ([]*model.ImportSkip, error) {
	var list []*model.ImportSkip
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("line ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *importRunRepository) ListRecent(ctx context.Context, limit int) ([]*model.ImportRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []*model.ImportRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
