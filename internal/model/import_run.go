package model

import (
	"time"

	"gorm.io/datatypes"
)

// ImportRun 状态
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// ImportRun 一次导入的汇总记录
type ImportRun struct {
	ID         string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Dataset    string     `gorm:"column:dataset;type:varchar(32);not null;index" json:"dataset"`
	File       string     `gorm:"column:file;type:varchar(512);not null" json:"file"`
	Status     string     `gorm:"column:status;type:varchar(16);not null;default:running" json:"status"`
	Total      int        `gorm:"column:total" json:"total"`
	Upserted   int        `gorm:"column:upserted" json:"upserted"`
	Skipped    int        `gorm:"column:skipped" json:"skipped"`
	Error      string     `gorm:"column:error;type:text" json:"error"`
	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at"`
}

func (ImportRun) TableName() string { return "import_runs" }

// ImportSkip 被跳过的行，保留原始行内容便于人工修正后重导
type ImportSkip struct {
	ID      uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID   string         `gorm:"column:run_id;type:varchar(36);not null;index" json:"run_id"`
	Line    int            `gorm:"column:line;not null" json:"line"`
	Kind    string         `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	Message string         `gorm:"column:message;type:text" json:"message"`
	Raw     datatypes.JSON `gorm:"column:raw" json:"raw"`
}

func (ImportSkip) TableName() string { return "import_skips" }

// All 按依赖顺序列出需要迁移的模型
func All() []interface{} {
	return []interface{}{
		&Country{},
		&Host{},
		&Discipline{},
		&Event{},
		&Athlete{},
		&Team{},
		&Medal{},
		&ImportRun{},
		&ImportSkip{},
	}
}
