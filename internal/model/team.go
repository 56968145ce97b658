package model

import (
	"fmt"
	"strings"
	"time"
)

// Team 队伍；ID 由 分项+性别+赛事片段+国家+年份+序号 合成
type Team struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(50)" json:"id"`
	CountryCode  string    `gorm:"column:country_code;type:varchar(3);not null;index" json:"country_code"`
	Gender       string    `gorm:"column:gender;type:varchar(5);not null" json:"gender"` // M/W/X/O
	Discipline   string    `gorm:"column:discipline;type:varchar(264)" json:"discipline"`
	AthleteNames string    `gorm:"column:athlete_names;type:varchar(1000)" json:"athlete_names"`
	AthleteIDs   string    `gorm:"column:athlete_ids;type:varchar(1000)" json:"athlete_ids"`
	NumAthletes  *int      `gorm:"column:num_athletes" json:"num_athletes"`
	CodeRaw      string    `gorm:"column:code_raw;type:varchar(30);index" json:"code_raw"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Team) TableName() string { return "teams" }

func (t *Team) WinnerRef() WinnerRef { return WinnerRef{Kind: WinnerTeam, ID: t.ID} }

func (t *Team) String() string {
	return fmt.Sprintf("%s %s from %s", t.Gender, t.Discipline, t.CountryCode)
}

// AthleteNameList 拆分原始名单字符串
func (t *Team) AthleteNameList() []string { return SplitRoster(t.AthleteNames) }

// AthleteIDList 拆分原始运动员编码字符串
func (t *Team) AthleteIDList() []string { return SplitRoster(t.AthleteIDs) }

// ValidateRoster 名单人数与 num_athletes 不一致时返回错误（原始数据不保证一致）
func (t *Team) ValidateRoster() error {
	if t.NumAthletes == nil {
		return nil
	}
	if names := t.AthleteNameList(); len(names) > 0 && len(names) != *t.NumAthletes {
		return fmt.Errorf("队伍 %s 名单 %d 人，num_athletes=%d", t.ID, len(names), *t.NumAthletes)
	}
	if ids := t.AthleteIDList(); len(ids) > 0 && len(ids) != *t.NumAthletes {
		return fmt.Errorf("队伍 %s 编码 %d 个，num_athletes=%d", t.ID, len(ids), *t.NumAthletes)
	}
	return nil
}

// SplitRoster 解析 "['A', 'B']" 或 "A, B" 形式的名单
func SplitRoster(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
