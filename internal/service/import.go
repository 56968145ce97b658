package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"MedalTally/internal/apperr"
	"MedalTally/internal/importer"
	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/source"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ErrImportBusy 已有导入在执行（导入器假定为唯一写入方）
var ErrImportBusy = errors.New("import already running")

// Summary 一次导入的结果
type Summary struct {
	RunID    string        `json:"run_id"`
	Dataset  string        `json:"dataset"`
	File     string        `json:"file"`
	Total    int           `json:"total"`
	Upserted int           `json:"upserted"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

type ImportService struct {
	store    *repository.Store
	registry *importer.Registry
	logger   *logrus.Logger
	mu       sync.Mutex
}

func NewImportService(store *repository.Store, registry *importer.Registry, logger *logrus.Logger) *ImportService {
	return &ImportService{store: store, registry: registry, logger: logger}
}

// Import 导入单个文件；dataset 为空时按文件名识别。阻塞直到其他导入结束
func (s *ImportService) Import(ctx context.Context, dataset, path string) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importFile(ctx, dataset, path)
}

// TryImport 已有导入在执行时立即返回 ErrImportBusy
func (s *ImportService) TryImport(ctx context.Context, dataset, path string) (*Summary, error) {
	if !s.mu.TryLock() {
		return nil, ErrImportBusy
	}
	defer s.mu.Unlock()
	return s.importFile(ctx, dataset, path)
}

// ImportAll 按依赖顺序导入目录下的全部已知文件，缺失的文件跳过
func (s *ImportService) ImportAll(ctx context.Context, dir string) ([]*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importAll(ctx, dir)
}

// TryImportAll 同 ImportAll，已有导入在执行时返回 ErrImportBusy
func (s *ImportService) TryImportAll(ctx context.Context, dir string) ([]*Summary, error) {
	if !s.mu.TryLock() {
		return nil, ErrImportBusy
	}
	defer s.mu.Unlock()
	return s.importAll(ctx, dir)
}

// FileName 数据集的默认文件名
func (s *ImportService) FileName(dataset string) (string, error) {
	imp, err := s.registry.Get(dataset)
	if err != nil {
		return "", err
	}
	return imp.FileName(), nil
}

func (s *ImportService) importAll(ctx context.Context, dir string) ([]*Summary, error) {
	var out []*Summary
	for _, imp := range s.registry.Ordered() {
		path := filepath.Join(dir, imp.FileName())
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			s.logger.WithFields(logrus.Fields{"dataset": imp.Name(), "file": path}).Warn("文件不存在，跳过该数据集")
			continue
		}
		sum, err := s.importFile(ctx, imp.Name(), path)
		if err != nil && apperr.IsFileLevel(err) {
			// 检查之后文件被移走
			s.logger.WithError(err).WithField("dataset", imp.Name()).Warn("文件不存在，跳过该数据集")
			out = append(out, sum)
			continue
		}
		if err != nil {
			return out, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// Run 查询导入记录及其跳过的行
func (s *ImportService) Run(ctx context.Context, id string) (*model.ImportRun, []*model.ImportSkip, error) {
	run, err := s.store.Runs.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	skips, err := s.store.Runs.ListSkips(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, skips, nil
}

// RecentRuns 最近的导入记录
func (s *ImportService) RecentRuns(ctx context.Context, limit int) ([]*model.ImportRun, error) {
	return s.store.Runs.ListRecent(ctx, limit)
}

func (s *ImportService) importFile(ctx context.Context, dataset, path string) (*Summary, error) {
	var (
		imp interfaces.Importer
		err error
	)
	if dataset == "" {
		imp, err = s.registry.Detect(path)
	} else {
		imp, err = s.registry.Get(dataset)
	}
	if err != nil {
		return nil, err
	}

	start := time.Now()
	run := &model.ImportRun{
		ID:        uuid.NewString(),
		Dataset:   imp.Name(),
		File:      path,
		Status:    model.RunRunning,
		StartedAt: start,
	}
	if err := s.store.Runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("创建导入记录失败: %w", err)
	}
	log := s.logger.WithFields(logrus.Fields{"run": run.ID, "dataset": imp.Name(), "file": path})
	log.Info("开始导入")
	if rs, ok := imp.(interfaces.RunStarter); ok {
		rs.BeginRun()
	}

	skips, runErr := s.consume(ctx, imp, path, run, log)

	finished := time.Now()
	run.FinishedAt = &finished
	run.Status = model.RunSucceeded
	if runErr != nil {
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	}
	// 记账不受调用方取消影响
	bg := context.WithoutCancel(ctx)
	if err := s.store.Runs.AddSkips(bg, skips); err != nil {
		log.WithError(err).Error("写入跳过记录失败")
	}
	if err := s.store.Runs.Finish(bg, run); err != nil {
		log.WithError(err).Error("更新导入记录失败")
	}

	sum := &Summary{
		RunID:    run.ID,
		Dataset:  run.Dataset,
		File:     path,
		Total:    run.Total,
		Upserted: run.Upserted,
		Skipped:  run.Skipped,
		Duration: finished.Sub(start),
	}
	if runErr != nil {
		log.WithError(runErr).WithField("kind", apperr.KindOf(runErr)).Error("导入失败")
		return sum, fmt.Errorf("导入 %s 失败: %w", imp.Name(), runErr)
	}
	log.WithFields(logrus.Fields{
		"total":    sum.Total,
		"upserted": sum.Upserted,
		"skipped":  sum.Skipped,
		"elapsed":  sum.Duration.String(),
	}).Info("导入完成")
	return sum, nil
}

// consume 逐行解析并写入；行级错误跳过，文件级错误终止
func (s *ImportService) consume(ctx context.Context, imp interfaces.Importer, path string, run *model.ImportRun, log *logrus.Entry) ([]*model.ImportSkip, error) {
	reader, err := source.Open(path, imp.Format(), imp.RequiredColumns())
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var skips []*model.ImportSkip
	skip := func(line int, raw map[string]string, err error) {
		run.Skipped++
		kind := apperr.KindOf(err)
		log.WithFields(logrus.Fields{"line": line, "kind": kind, "row": raw}).WithError(err).Warn("跳过数据行")
		skips = append(skips, &model.ImportSkip{
			RunID:   run.ID,
			Line:    line,
			Kind:    string(kind),
			Message: err.Error(),
			Raw:     rawJSON(raw),
		})
	}

	for {
		if err := ctx.Err(); err != nil {
			return skips, err
		}
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return skips, nil
		}
		if err != nil {
			var rowErr *apperr.RowError
			if !errors.As(err, &rowErr) {
				return skips, err
			}
			run.Total++
			skip(rowErr.Line, rowErr.Raw, rowErr.Err)
			continue
		}
		run.Total++

		err = s.store.Transaction(ctx, func(tx *repository.Store) error {
			return imp.ImportRow(ctx, tx, rec)
		})
		if err != nil {
			if ctx.Err() != nil {
				return skips, ctx.Err()
			}
			skip(rec.Line, rec.Fields, err)
			continue
		}
		run.Upserted++
	}
}

func rawJSON(raw map[string]string) datatypes.JSON {
	if raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
