package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MedalTally/internal/model"
	"MedalTally/internal/repository"

	"github.com/sirupsen/logrus"
)

// ErrInvalidFilter 报表筛选参数不合法
var ErrInvalidFilter = errors.New("invalid filter")

// TallyService 奖牌榜报表
type TallyService struct {
	store  *repository.Store
	tally  repository.TallyRepository
	logger *logrus.Logger
}

// NewTallyService 创建 TallyService
func NewTallyService(store *repository.Store, tally repository.TallyRepository, logger *logrus.Logger) *TallyService {
	return &TallyService{store: store, tally: tally, logger: logger}
}

// ParseSeason ""/"All" 表示不过滤
func ParseSeason(s string) (model.Season, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", nil
	case "summer":
		return model.SeasonSummer, nil
	case "winter":
		return model.SeasonWinter, nil
	}
	return "", fmt.Errorf("%w: season=%q", ErrInvalidFilter, s)
}

// HostReport 单届奖牌榜
type HostReport struct {
	Host      *model.Host                `json:"host"`
	Countries []*repository.CountryTally `json:"countries"`
}

// CountryTimeline 国家历届奖牌走势
type CountryTimeline struct {
	Country *model.Country          `json:"country"`
	Points  []*repository.HostTally `json:"points"`
}

// DisciplineMedals 按分项分组的奖牌
type DisciplineMedals struct {
	Code   string                 `json:"code"`
	Name   string                 `json:"name"`
	Medals []*repository.MedalRow `json:"medals"`
}

// CountryMedalReport 国家奖牌明细
type CountryMedalReport struct {
	Country     *model.Country      `json:"country"`
	Host        *model.Host         `json:"host,omitempty"`
	Total       int                 `json:"total"`
	Disciplines []*DisciplineMedals `json:"disciplines"`
}

// Leaderboard 全部届次（或某季节）的国家奖牌榜
func (s *TallyService) Leaderboard(ctx context.Context, season string, limit int) ([]*repository.CountryTally, error) {
	sea, err := ParseSeason(season)
	if err != nil {
		return nil, err
	}
	list, err := s.tally.CountryTallies(ctx, repository.TallyFilter{Season: sea}, limit)
	if err != nil {
		return nil, fmt.Errorf("查询奖牌榜失败: %w", err)
	}
	return list, nil
}

// HostTally 单届奖牌榜
func (s *TallyService) HostTally(ctx context.Context, slug string, limit int) (*HostReport, error) {
	host, err := s.store.Hosts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	list, err := s.tally.CountryTallies(ctx, repository.TallyFilter{HostID: host.ID}, limit)
	if err != nil {
		return nil, fmt.Errorf("查询 %s 奖牌榜失败: %w", slug, err)
	}
	return &HostReport{Host: host, Countries: list}, nil
}

// CountryTimeline 国家历届奖牌数（含零奖牌届次）
func (s *TallyService) CountryTimeline(ctx context.Context, code, season string) (*CountryTimeline, error) {
	sea, err := ParseSeason(season)
	if err != nil {
		return nil, err
	}
	country, err := s.store.Countries.Get(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	points, err := s.tally.CountryTimeline(ctx, country.Code, sea)
	if err != nil {
		return nil, fmt.Errorf("查询 %s 奖牌走势失败: %w", country.Code, err)
	}
	return &CountryTimeline{Country: country, Points: points}, nil
}

// CountryMedals 国家奖牌明细，按分项分组；hostSlug 为空则统计全部届次
func (s *TallyService) CountryMedals(ctx context.Context, code, hostSlug string) (*CountryMedalReport, error) {
	country, err := s.store.Countries.Get(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	report := &CountryMedalReport{Country: country, Disciplines: []*DisciplineMedals{}}
	hostID := ""
	if hostSlug != "" {
		host, err := s.store.Hosts.GetBySlug(ctx, hostSlug)
		if err != nil {
			return nil, err
		}
		report.Host = host
		hostID = host.ID
	}

	rows, err := s.tally.CountryMedals(ctx, country.Code, hostID)
	if err != nil {
		return nil, fmt.Errorf("查询 %s 奖牌明细失败: %w", country.Code, err)
	}
	// rows 已按分项名排序
	var cur *DisciplineMedals
	for _, row := range rows {
		if cur == nil || cur.Code != row.DisciplineCode {
			cur = &DisciplineMedals{Code: row.DisciplineCode, Name: row.DisciplineName}
			report.Disciplines = append(report.Disciplines, cur)
		}
		cur.Medals = append(cur.Medals, row)
	}
	report.Total = len(rows)
	return report, nil
}

// Hosts 届次列表，按年份倒序
func (s *TallyService) Hosts(ctx context.Context, season string) ([]*model.Host, error) {
	sea, err := ParseSeason(season)
	if err != nil {
		return nil, err
	}
	return s.store.Hosts.List(ctx, sea)
}
