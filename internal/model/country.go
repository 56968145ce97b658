package model

import "time"

// Country 国家/地区（奥委会三字码为自然键）
type Country struct {
	Code      string    `gorm:"column:code;primaryKey;type:varchar(3)" json:"code"`
	FullName  string    `gorm:"column:full_name;type:varchar(264);not null;default:''" json:"full_name"`
	ISO       string    `gorm:"column:iso;type:varchar(6);not null;default:'xx'" json:"iso"`
	FlagURL   string    `gorm:"column:flag_url;type:varchar(512);not null;default:''" json:"flag_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Country) TableName() string { return "countries" }
