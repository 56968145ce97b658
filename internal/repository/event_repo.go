package repository

import (
	"context"
	"errors"
	"fmt"

	"MedalTally/internal/model"

	"gorm.io/gorm"
)

// EventKey 赛事唯一键
type EventKey struct {
	DisciplineCode string
	Name           string
	Gender         model.Gender
	HostID         string
}

// EventRepository 赛事仓储
type EventRepository interface {
	// Upsert 按唯一键查找或创建，回写 ev.ID；分项与届次必须已存在
	Upsert(ctx context.Context, ev *model.Event) error
	Find(ctx context.Context, key EventKey) (*model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Upsert(ctx context.Context, ev *model.Event) error {
	if err := requireExists(ctx, r.db, &model.Discipline{}, "code", ev.DisciplineCode, "discipline"); err != nil {
		return err
	}
	if err := requireExists(ctx, r.db, &model.Host{}, "id", ev.HostID, "host"); err != nil {
		return err
	}
	existing, err := r.Find(ctx, EventKey{
		DisciplineCode: ev.DisciplineCode,
		Name:           ev.Name,
		Gender:         ev.Gender,
		HostID:         ev.HostID,
	})
	switch {
	case err == nil:
		*ev = *existing
		return nil
	case !errors.Is(err, ErrNotFound):
		return err
	}
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("保存赛事失败: %w, name: %s", err, ev.Name)
	}
	return nil
}

func (r *eventRepository) Find(ctx context.Context, key EventKey) (*model.Event, error) {
	var ev model.Event
	if err := r.db.WithContext(ctx).
		Where("discipline_code = ? AND name = ? AND gender = ? AND host_id = ?",
			key.DisciplineCode, key.Name, key.Gender, key.HostID).
		First(&ev).Error; err != nil {
		return nil, notFound(err)
	}
	return &ev, nil
}
