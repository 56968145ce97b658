package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Medal 奖牌；同一赛事同一获奖者同一等级只有一条
type Medal struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Rank        Rank            `gorm:"column:rank;type:varchar(6);not null;uniqueIndex:uq_medal_key,priority:2" json:"rank"`
	EventID     uint64          `gorm:"column:event_id;not null;uniqueIndex:uq_medal_key,priority:1" json:"event_id"`
	CountryCode string          `gorm:"column:country_code;type:varchar(3);not null;index" json:"country_code"`
	Winner      WinnerRef       `gorm:"embedded;embeddedPrefix:winner_" json:"winner"`
	Date        *datatypes.Date `gorm:"column:date" json:"date"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Medal) TableName() string { return "medals" }

func (m Medal) String() string {
	return fmt.Sprintf("event#%d [%s]", m.EventID, m.Rank)
}
