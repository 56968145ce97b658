// Package importer 每个数据文件一个导入器：解析行 -> 规范化 -> 解析引用 -> 写入
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"MedalTally/internal/config"
	"MedalTally/internal/interfaces"
	"MedalTally/internal/resolver"

	"github.com/sirupsen/logrus"
)

// Deps 导入器共享的解析器与配置
type Deps struct {
	Countries     *resolver.CountryResolver
	Disciplines   *resolver.DisciplineResolver
	Winners       *resolver.WinnerResolver
	ParisHostSlug string
	ParisYear     int
	Logger        *logrus.Logger
}

// NewDeps 按导入配置组装解析器
func NewDeps(cfg *config.ImportConfig, flags interfaces.FlagResolver, logger *logrus.Logger) *Deps {
	return &Deps{
		Countries:     resolver.NewCountryResolver(flags, logger),
		Disciplines:   resolver.NewDisciplineResolver(cfg.DisciplineAliases),
		Winners:       resolver.NewWinnerResolver(logger),
		ParisHostSlug: cfg.ParisHostSlug,
		ParisYear:     cfg.ParisYear,
		Logger:        logger,
	}
}

// Factory 导入器工厂函数
type Factory func(d *Deps) interfaces.Importer

// Order 依赖顺序：被引用的实体先导入
var Order = []string{"hosts", "disciplines", "countries", "athletes", "teams", "events", "medals", "medals-history"}

var factoryRegistry = make(map[string]Factory)

// Register 供各导入器 init 调用
func Register(name string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("导入器 %s 的工厂函数不能为nil", name))
	}
	if _, exists := factoryRegistry[name]; exists {
		panic(fmt.Sprintf("导入器 %s 重复注册", name))
	}
	factoryRegistry[name] = factory
}

// Registry 已初始化的导入器
type Registry struct {
	importers map[string]interfaces.Importer
	byFile    map[string]interfaces.Importer
}

func NewRegistry(d *Deps) *Registry {
	r := &Registry{
		importers: make(map[string]interfaces.Importer, len(factoryRegistry)),
		byFile:    make(map[string]interfaces.Importer, len(factoryRegistry)),
	}
	for name, factory := range factoryRegistry {
		imp := factory(d)
		r.importers[name] = imp
		r.byFile[strings.ToLower(imp.FileName())] = imp
	}
	return r
}

// Get 按数据集名称获取
func (r *Registry) Get(name string) (interfaces.Importer, error) {
	imp, ok := r.importers[name]
	if !ok {
		return nil, fmt.Errorf("未知数据集 %q（可选：%s）", name, strings.Join(Order, ", "))
	}
	return imp, nil
}

// Detect 按文件名识别数据集
func (r *Registry) Detect(path string) (interfaces.Importer, error) {
	imp, ok := r.byFile[strings.ToLower(filepath.Base(path))]
	if !ok {
		return nil, fmt.Errorf("无法根据文件名 %s 识别数据集", filepath.Base(path))
	}
	return imp, nil
}

// Ordered 按依赖顺序返回全部导入器
func (r *Registry) Ordered() []interfaces.Importer {
	out := make([]interfaces.Importer, 0, len(Order))
	for _, name := range Order {
		if imp, ok := r.importers[name]; ok {
			out = append(out, imp)
		}
	}
	return out
}
