package repository

import (
	"context"
	"strings"

	"MedalTally/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository 队伍仓储
type TeamRepository interface {
	Upsert(ctx context.Context, t *model.Team) error
	Get(ctx context.Context, id string) (*model.Team, error)
	// ListIDsWithPrefix 返回以 prefix 开头的队伍 ID，按字典序倒序
	ListIDsWithPrefix(ctx context.Context, prefix string) ([]string, error)
	// FindByCodeRaw 按数据集原始编码查找（非现役队伍重放时复用已合成的 ID）
	FindByCodeRaw(ctx context.Context, countryCode, codeRaw string) (*model.Team, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Upsert(ctx context.Context, t *model.Team) error {
	if err := requireExists(ctx, r.db, &model.Country{}, "code", t.CountryCode, "country"); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"country_code", "gender", "discipline", "athlete_names", "athlete_ids",
			"num_athletes", "code_raw", "updated_at",
		}),
	}).Create(t).Error
}

func (r *teamRepository) Get(ctx context.Context, id string) (*model.Team, error) {
	var t model.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *teamRepository) ListIDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Team{}).
		Where("id LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("id DESC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *teamRepository) FindByCodeRaw(ctx context.Context, countryCode, codeRaw string) (*model.Team, error) {
	var t model.Team
	if err := r.db.WithContext(ctx).
		Where("country_code = ? AND code_raw = ?", countryCode, codeRaw).
		Order("id ASC").
		First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
