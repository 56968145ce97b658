package model

import "time"

// Discipline 项目/分项（如 Volleyball 下的 Beach Volleyball）
type Discipline struct {
	Code      string    `gorm:"column:code;primaryKey;type:varchar(3)" json:"code"`
	Name      string    `gorm:"column:name;type:varchar(264);not null;index" json:"name"`
	Sport     string    `gorm:"column:sport;type:varchar(264)" json:"sport"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Discipline) TableName() string { return "disciplines" }
