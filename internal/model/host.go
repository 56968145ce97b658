package model

import "time"

// Host 一届奥运会（年份+季节+举办地）
type Host struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(100)" json:"id"` // 数据集提供的 game_slug
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(100);uniqueIndex;not null" json:"slug"`
	Location  string    `gorm:"column:location;type:varchar(264)" json:"location"`
	Season    Season    `gorm:"column:season;type:varchar(6);not null" json:"season"`
	Year      int       `gorm:"column:year;not null;index" json:"year"`
	StartDate time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date" json:"end_date"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Host) TableName() string { return "hosts" }
