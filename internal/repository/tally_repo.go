package repository

import (
	"context"

	"MedalTally/internal/model"

	"gorm.io/gorm"
)

// TallyFilter 奖牌榜筛选
type TallyFilter struct {
	Season model.Season // 为空不过滤
	HostID string       // 为空统计全部届次
}

// CountryTally 国家奖牌数
type CountryTally struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
	FlagURL  string `json:"flag_url"`
	Gold     int64  `json:"gold"`
	Silver   int64  `json:"silver"`
	Bronze   int64  `json:"bronze"`
	Total    int64  `json:"total"`
}

// HostTally 某国在某届的奖牌数（国家走势图的一个点）
type HostTally struct {
	HostID string       `json:"host_id"`
	Slug   string       `json:"slug"`
	Name   string       `json:"name"`
	Year   int          `json:"year"`
	Season model.Season `json:"season"`
	Gold   int64        `json:"gold"`
	Silver int64        `json:"silver"`
	Bronze int64        `json:"bronze"`
	Total  int64        `json:"total"`
}

// MedalRow 奖牌明细（带赛事、分项、届次）
type MedalRow struct {
	MedalID        uint64           `json:"medal_id"`
	Rank           model.Rank       `json:"rank"`
	EventID        uint64           `json:"event_id"`
	EventName      string           `json:"event_name"`
	Gender         model.Gender     `json:"gender"`
	DisciplineCode string           `json:"discipline_code"`
	DisciplineName string           `json:"discipline_name"`
	HostSlug       string           `json:"host_slug"`
	Year           int              `json:"year"`
	WinnerKind     model.WinnerKind `json:"winner_kind"`
	WinnerID       string           `json:"winner_id"`
}

// TallyRepository 面向报表的聚合查询
type TallyRepository interface {
	// CountryTallies 按金、银、铜依次倒序
	CountryTallies(ctx context.Context, filter TallyFilter, limit int) ([]*CountryTally, error)
	// CountryTimeline 某国在每一届的奖牌数，按年份升序，无奖牌的届次计 0
	CountryTimeline(ctx context.Context, countryCode string, season model.Season) ([]*HostTally, error)
	// CountryMedals 某国奖牌明细；hostID 为空则返回全部届次
	CountryMedals(ctx context.Context, countryCode, hostID string) ([]*MedalRow, error)
}

type tallyRepository struct {
	db *gorm.DB
}

// NewTallyRepository 创建 TallyRepository 实例
func NewTallyRepository(db *gorm.DB) TallyRepository {
	return &tallyRepository{db: db}
}

const rankCounts = "SUM(CASE WHEN medals.rank = ? THEN 1 ELSE 0 END) AS gold, " +
	"SUM(CASE WHEN medals.rank = ? THEN 1 ELSE 0 END) AS silver, " +
	"SUM(CASE WHEN medals.rank = ? THEN 1 ELSE 0 END) AS bronze, " +
	"COUNT(medals.id) AS total"

func (r *tallyRepository) CountryTallies(ctx context.Context, filter TallyFilter, limit int) ([]*CountryTally, error) {
	db := r.db.WithContext(ctx).Table("medals").
		Select("countries.code AS code, countries.full_name AS full_name, countries.flag_url AS flag_url, "+rankCounts,
			model.RankGold, model.RankSilver, model.RankBronze).
		Joins("JOIN countries ON countries.code = medals.country_code").
		Joins("JOIN events ON events.id = medals.event_id").
		Joins("JOIN hosts ON hosts.id = events.host_id")
	if filter.Season != "" {
		db = db.Where("hosts.season = ?", filter.Season)
	}
	if filter.HostID != "" {
		db = db.Where("hosts.id = ?", filter.HostID)
	}
	db = db.Group("countries.code, countries.full_name, countries.flag_url").
		Order("gold DESC").Order("silver DESC").Order("bronze DESC").Order("countries.code ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var list []*CountryTally
	if err := db.Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *tallyRepository) CountryTimeline(ctx context.Context, countryCode string, season model.Season) ([]*HostTally, error) {
	db := r.db.WithContext(ctx).Table("hosts").
		Select("hosts.id AS host_id, hosts.slug AS slug, hosts.name AS name, hosts.year AS year, hosts.season AS season, "+rankCounts,
			model.RankGold, model.RankSilver, model.RankBronze).
		Joins("LEFT JOIN events ON events.host_id = hosts.id").
		Joins("LEFT JOIN medals ON medals.event_id = events.id AND medals.country_code = ?", countryCode)
	if season != "" {
		db = db.Where("hosts.season = ?", season)
	}
	var list []*HostTally
	if err := db.Group("hosts.id, hosts.slug, hosts.name, hosts.year, hosts.season").
		Order("hosts.year ASC").Order("hosts.season ASC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *tallyRepository) CountryMedals(ctx context.Context, countryCode, hostID string) ([]*MedalRow, error) {
	db := r.db.WithContext(ctx).Table("medals").
		Select("medals.id AS medal_id, medals.rank AS rank, events.id AS event_id, events.name AS event_name, " +
			"events.gender AS gender, disciplines.code AS discipline_code, disciplines.name AS discipline_name, " +
			"hosts.slug AS host_slug, hosts.year AS year, medals.winner_kind AS winner_kind, medals.winner_id AS winner_id").
		Joins("JOIN events ON events.id = medals.event_id").
		Joins("JOIN disciplines ON disciplines.code = events.discipline_code").
		Joins("JOIN hosts ON hosts.id = events.host_id").
		Where("medals.country_code = ?", countryCode)
	if hostID != "" {
		db = db.Where("hosts.id = ?", hostID)
	}
	var list []*MedalRow
	if err := db.Order("disciplines.name ASC").Order("hosts.year DESC").Order("medals.id ASC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
