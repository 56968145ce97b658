package repository

import (
	"context"
	"errors"
	"fmt"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"

	"gorm.io/gorm"
)

// DefaultSharedRanks 允许同一赛事出现多枚的等级（柔道/拳击等项目有两枚铜牌）
var DefaultSharedRanks = []model.Rank{model.RankBronze}

// MedalRepository 奖牌仓储
type MedalRepository interface {
	// Upsert 以 (event, rank, winner) 为键创建或更新；独占等级已被其他获奖者持有时返回 ErrDuplicateMedal
	Upsert(ctx context.Context, m *model.Medal) error
	Get(ctx context.Context, id uint64) (*model.Medal, error)
	// FindTeamMedal 按 id 顺序取某国队伍在某赛事某等级的第 nth 枚奖牌（从 0 开始；历史数据重放时复用已合成的队伍 ID）
	FindTeamMedal(ctx context.Context, eventID uint64, rank model.Rank, countryCode string, nth int) (*model.Medal, error)
	// Winner 将弱引用解析为具体实体
	Winner(ctx context.Context, ref model.WinnerRef) (model.Winner, error)
	CountByEvent(ctx context.Context, eventID uint64) (int64, error)
}

type medalRepository struct {
	db     *gorm.DB
	shared map[model.Rank]bool
}

func NewMedalRepository(db *gorm.DB, sharedRanks ...model.Rank) MedalRepository {
	if len(sharedRanks) == 0 {
		sharedRanks = DefaultSharedRanks
	}
	shared := make(map[model.Rank]bool, len(sharedRanks))
	for _, r := range sharedRanks {
		shared[r] = true
	}
	return &medalRepository{db: db, shared: shared}
}

func (r *medalRepository) Upsert(ctx context.Context, m *model.Medal) error {
	if !m.Rank.Valid() {
		return apperr.Malformed("rank", string(m.Rank), nil)
	}
	if err := requireExists(ctx, r.db, &model.Event{}, "id", fmt.Sprint(m.EventID), "event"); err != nil {
		return err
	}
	if err := requireExists(ctx, r.db, &model.Country{}, "code", m.CountryCode, "country"); err != nil {
		return err
	}
	if _, err := r.Winner(ctx, m.Winner); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	var existing model.Medal
	err := db.Where("event_id = ? AND rank = ? AND winner_kind = ? AND winner_id = ?",
		m.EventID, m.Rank, m.Winner.Kind, m.Winner.ID).First(&existing).Error
	switch {
	case err == nil:
		m.ID = existing.ID
		return db.Model(&existing).Updates(map[string]interface{}{
			"country_code": m.CountryCode,
			"date":         m.Date,
		}).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if !r.shared[m.Rank] {
		var holders int64
		if err := db.Model(&model.Medal{}).
			Where("event_id = ? AND rank = ?", m.EventID, m.Rank).
			Count(&holders).Error; err != nil {
			return err
		}
		if holders > 0 {
			return fmt.Errorf("%w: event#%d 已有 %s", apperr.ErrDuplicateMedal, m.EventID, m.Rank)
		}
	}
	return db.Create(m).Error
}

func (r *medalRepository) Get(ctx context.Context, id uint64) (*model.Medal, error) {
	var m model.Medal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *medalRepository) FindTeamMedal(ctx context.Context, eventID uint64, rank model.Rank, countryCode string, nth int) (*model.Medal, error) {
	var m model.Medal
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND rank = ? AND country_code = ? AND winner_kind = ?",
			eventID, rank, countryCode, model.WinnerTeam).
		Order("id ASC").
		Offset(nth).
		Limit(1).
		Find(&m).Error; err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *medalRepository) Winner(ctx context.Context, ref model.WinnerRef) (model.Winner, error) {
	db := r.db.WithContext(ctx)
	switch ref.Kind {
	case model.WinnerAthlete:
		var a model.Athlete
		if err := db.Where("id = ?", ref.ID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Dangling("athlete", ref.ID)
			}
			return nil, err
		}
		return &a, nil
	case model.WinnerTeam:
		var t model.Team
		if err := db.Where("id = ?", ref.ID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Dangling("team", ref.ID)
			}
			return nil, err
		}
		return &t, nil
	default:
		return nil, apperr.Malformed("winner_kind", string(ref.Kind), nil)
	}
}

func (r *medalRepository) CountByEvent(ctx context.Context, eventID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Medal{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}
