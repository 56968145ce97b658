package model

import (
	"time"

	"gorm.io/datatypes"
)

// Athlete 运动员；2024 数据集提供外部编码作为主键，历史数据使用确定性代理键
type Athlete struct {
	ID          string          `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name        string          `gorm:"column:name;type:varchar(264);not null;index:idx_athlete_identity" json:"name"`
	ShortName   string          `gorm:"column:short_name;type:varchar(264)" json:"short_name"`
	DisplayName string          `gorm:"column:display_name;type:varchar(264)" json:"display_name"`
	Gender      string          `gorm:"column:gender;type:varchar(6);index:idx_athlete_identity" json:"gender"`
	CountryCode string          `gorm:"column:country_code;type:varchar(3);not null;index:idx_athlete_identity" json:"country_code"`
	Disciplines string          `gorm:"column:disciplines;type:varchar(1000)" json:"disciplines"`
	Events      string          `gorm:"column:events;type:varchar(1000)" json:"events"`
	BirthDate   *datatypes.Date `gorm:"column:birth_date" json:"birth_date"`
	Height      *float64        `gorm:"column:height;type:numeric(5,2)" json:"height"`
	Weight      *float64        `gorm:"column:weight;type:numeric(5,2)" json:"weight"`
	IsAlternate *bool           `gorm:"column:is_alternate" json:"is_alternate"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Athlete) TableName() string { return "athletes" }

func (a *Athlete) WinnerRef() WinnerRef { return WinnerRef{Kind: WinnerAthlete, ID: a.ID} }

func (a *Athlete) String() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}
