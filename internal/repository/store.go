package repository

import (
	"context"
	"errors"
	"fmt"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound 按键查询无结果
var ErrNotFound = errors.New("record not found")

// Store 实体仓储集合；同一 Store 内的仓储共享同一个 *gorm.DB（或同一事务）
type Store struct {
	db          *gorm.DB
	opts        options
	Countries   CountryRepository
	Hosts       HostRepository
	Disciplines DisciplineRepository
	Events      EventRepository
	Athletes    AthleteRepository
	Teams       TeamRepository
	Medals      MedalRepository
	Runs        ImportRunRepository
}

type options struct {
	sharedRanks []model.Rank
}

// Option 仓储选项
type Option func(*options)

// WithSharedRanks 指定允许同一赛事多枚的奖牌等级
func WithSharedRanks(ranks ...model.Rank) Option {
	return func(o *options) { o.sharedRanks = ranks }
}

// NewStore 创建仓储集合
func NewStore(db *gorm.DB, opts ...Option) *Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return newStore(db, o)
}

func newStore(db *gorm.DB, o options) *Store {
	return &Store{
		db:          db,
		opts:        o,
		Countries:   NewCountryRepository(db),
		Hosts:       NewHostRepository(db),
		Disciplines: NewDisciplineRepository(db),
		Events:      NewEventRepository(db),
		Athletes:    NewAthleteRepository(db),
		Teams:       NewTeamRepository(db),
		Medals:      NewMedalRepository(db, o.sharedRanks...),
		Runs:        NewImportRunRepository(db),
	}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction 在单个事务中执行 fn；fn 返回错误则整体回滚，保证一行要么全部写入要么全部跳过
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx, s.opts))
	})
}

// AutoMigrate 库表不存在则创建
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("数据库表结构迁移失败: %w", err)
	}
	return nil
}

// notFound 将 gorm 的未找到错误转换为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// requireExists 外键校验：被引用行不存在时返回 DanglingReference
func requireExists(ctx context.Context, db *gorm.DB, m interface{}, column, key, entity string) error {
	var count int64
	if err := db.WithContext(ctx).Model(m).Where(column+" = ?", key).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if entity == "host" {
			return apperr.HostNotFound(key)
		}
		return apperr.Dangling(entity, key)
	}
	return nil
}
