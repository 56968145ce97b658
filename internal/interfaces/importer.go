package interfaces

import (
	"context"

	"MedalTally/internal/repository"
	"MedalTally/internal/source"
)

// Importer 单个数据文件的导入器
type Importer interface {
	Name() string              // 数据集名称（hosts/athletes/...）
	FileName() string          // 默认文件名，用于目录导入与自动识别
	Format() source.Format     // csv/json
	RequiredColumns() []string // 缺失即判定整个文件格式错误
	// ImportRow 解析、解析引用并写入；tx 为该行独占的事务
	ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error
}

// RunStarter 导入器在每次导入开始前需要重置内部状态时实现
type RunStarter interface {
	BeginRun()
}
