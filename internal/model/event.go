package model

import (
	"fmt"
	"time"
)

// Event 某届某分项下的具体比赛；(discipline, name, gender, host) 唯一
type Event struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;type:varchar(264);not null;default:'';uniqueIndex:uq_event_key" json:"name"`
	DisciplineCode string    `gorm:"column:discipline_code;type:varchar(3);not null;uniqueIndex:uq_event_key" json:"discipline_code"`
	Gender         Gender    `gorm:"column:gender;type:varchar(5);not null;uniqueIndex:uq_event_key" json:"gender"`
	HostID         string    `gorm:"column:host_id;type:varchar(100);not null;uniqueIndex:uq_event_key" json:"host_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "events" }

func (e Event) String() string {
	if e.Name == "" {
		return fmt.Sprintf("%s's %s", e.Gender, e.DisciplineCode)
	}
	return fmt.Sprintf("%s's %s: %s", e.Gender, e.DisciplineCode, e.Name)
}
