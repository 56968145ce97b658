package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
)

// suffixSports 分项名放在大项名之前：Artistic Gymnastics、Beach Volleyball
var suffixSports = map[string]bool{
	"Basketball": true,
	"Gymnastics": true,
	"Rowing":     true,
	"Volleyball": true,
	"Wrestling":  true,
	"Lacrosse":   true,
	"Skating":    true,
	"Skiing":     true,
}

// DefaultDisciplineAliases 历史数据集中的分项名 -> 现行分项名
var DefaultDisciplineAliases = map[string]string{
	"Volleyball":        "Indoor Volleyball",
	"Baseball/Softball": "Baseball",
}

// DisciplineName 由大项和分项生成去歧义后的分项名
func DisciplineName(sport, discipline string) string {
	sport = strings.TrimSpace(sport)
	discipline = strings.TrimSpace(discipline)
	switch {
	case discipline == "" || discipline == sport:
		return sport
	case strings.Contains(discipline, sport):
		return discipline
	case sport == "Aquatics":
		return discipline
	case suffixSports[sport]:
		return discipline + " " + sport
	default:
		return sport + " " + discipline
	}
}

// DisciplineRef 行内对分项的引用，编码优先
type DisciplineRef struct {
	Code       string
	Name       string
	EventTitle string // 马术按赛事名首词细分
}

// DisciplineResolver 分项解析
type DisciplineResolver struct {
	aliases map[string]string // 小写键
}

// NewDisciplineResolver aliases 为空时使用默认别名表
func NewDisciplineResolver(aliases map[string]string) *DisciplineResolver {
	if len(aliases) == 0 {
		aliases = DefaultDisciplineAliases
	}
	lower := make(map[string]string, len(aliases))
	for k, v := range aliases {
		lower[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &DisciplineResolver{aliases: lower}
}

// Resolve 依次按编码、名称（别名替换后）、马术细分查找
func (r *DisciplineResolver) Resolve(ctx context.Context, tx *repository.Store, ref DisciplineRef) (*model.Discipline, error) {
	code := strings.ToUpper(strings.TrimSpace(ref.Code))
	if code != "" {
		d, err := tx.Disciplines.Get(ctx, code)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		if code == "" {
			return nil, apperr.Malformed("discipline", "", nil)
		}
		return nil, apperr.Dangling("discipline", code)
	}
	if alias, ok := r.aliases[strings.ToLower(name)]; ok {
		name = alias
	}
	d, err := tx.Disciplines.GetByName(ctx, name)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if strings.EqualFold(name, "Equestrian") {
		words := strings.Fields(ref.EventTitle)
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: 马术赛事名为空，无法确定分项", apperr.ErrAmbiguousNameMapping)
		}
		full := "Equestrian " + words[0]
		d, err := tx.Disciplines.GetByName(ctx, full)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q 无法映射到马术分项 (%s)", apperr.ErrAmbiguousNameMapping, ref.EventTitle, full)
		}
		return d, err
	}
	return nil, apperr.Dangling("discipline", name)
}
