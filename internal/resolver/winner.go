package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// athleteNamespace 历史运动员代理键的 UUIDv5 命名空间
var athleteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("medaltally/athlete"))

// SurrogateAthleteID 同名同性别同国家的运动员得到相同 ID
func SurrogateAthleteID(name, gender, countryCode string) string {
	key := strings.Join([]string{strings.TrimSpace(name), gender, strings.ToUpper(countryCode)}, "|")
	return uuid.NewSHA1(athleteNamespace, []byte(key)).String()
}

// WinnerSpec 奖牌行中描述获奖者的字段
type WinnerSpec struct {
	Participant  string // Athlete / ATH；其他均视为队伍
	ExternalCode string // 2024 数据集的运动员或队伍编码
	AthleteName  string
	Gender       model.Gender
	Country      *model.Country
	Discipline   *model.Discipline
	Event        *model.Event
	Rank         model.Rank
	Year         int
}

// IsAthlete 参赛类型标记为运动员
func (s *WinnerSpec) IsAthlete() bool {
	return strings.Contains(strings.ToUpper(s.Participant), "ATH")
}

// teamSlot 历史队伍奖牌的位置键：同一赛事同一等级同一国家
type teamSlot struct {
	eventID uint64
	rank    model.Rank
	country string
}

// WinnerResolver 获奖者解析
type WinnerResolver struct {
	logger *logrus.Logger
	// 本次导入中每个位置已出现的队伍行数
	seen map[teamSlot]int
}

func NewWinnerResolver(logger *logrus.Logger) *WinnerResolver {
	return &WinnerResolver{logger: logger, seen: make(map[teamSlot]int)}
}

// BeginRun 每次导入开始时重置队伍位置计数
func (r *WinnerResolver) BeginRun() {
	r.seen = make(map[teamSlot]int)
}

// Release 该行最终未写入时归还占用的队伍位置
func (r *WinnerResolver) Release(spec WinnerSpec) {
	if spec.IsAthlete() || spec.ExternalCode != "" || spec.Event == nil || spec.Country == nil {
		return
	}
	slot := teamSlot{eventID: spec.Event.ID, rank: spec.Rank, country: spec.Country.Code}
	if r.seen[slot] > 0 {
		r.seen[slot]--
	}
}

// Resolve 返回获奖者引用；必要时新建历史运动员或合成队伍
func (r *WinnerResolver) Resolve(ctx context.Context, tx *repository.Store, spec WinnerSpec) (model.WinnerRef, error) {
	if spec.IsAthlete() {
		if spec.ExternalCode != "" {
			return r.externalAthlete(ctx, tx, spec.ExternalCode)
		}
		return r.historicalAthlete(ctx, tx, spec)
	}
	if spec.ExternalCode != "" {
		return r.externalTeam(ctx, tx, spec.ExternalCode, spec.Year)
	}
	return r.historicalTeam(ctx, tx, spec)
}

func (r *WinnerResolver) externalAthlete(ctx context.Context, tx *repository.Store, code string) (model.WinnerRef, error) {
	a, err := tx.Athletes.Get(ctx, strings.TrimSpace(code))
	if errors.Is(err, repository.ErrNotFound) {
		return model.WinnerRef{}, apperr.Dangling("athlete", code)
	}
	if err != nil {
		return model.WinnerRef{}, err
	}
	return a.WinnerRef(), nil
}

func (r *WinnerResolver) externalTeam(ctx context.Context, tx *repository.Store, code string, year int) (model.WinnerRef, error) {
	id, err := ParisTeamID(code, year)
	if err != nil {
		return model.WinnerRef{}, err
	}
	t, err := tx.Teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.WinnerRef{}, apperr.Dangling("team", id)
	}
	if err != nil {
		return model.WinnerRef{}, err
	}
	return t.WinnerRef(), nil
}

func (r *WinnerResolver) historicalAthlete(ctx context.Context, tx *repository.Store, spec WinnerSpec) (model.WinnerRef, error) {
	name := strings.TrimSpace(spec.AthleteName)
	if name == "" {
		return model.WinnerRef{}, apperr.Malformed("athlete_full_name", name, nil)
	}
	if spec.Country == nil {
		return model.WinnerRef{}, apperr.Dangling("country", "")
	}
	gender := spec.Gender.AthleteGender()

	a, err := tx.Athletes.FindByIdentity(ctx, name, gender, spec.Country.Code)
	if err == nil {
		return a.WinnerRef(), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.WinnerRef{}, err
	}
	a = &model.Athlete{
		ID:          SurrogateAthleteID(name, gender, spec.Country.Code),
		Name:        name,
		Gender:      gender,
		CountryCode: spec.Country.Code,
	}
	if spec.Discipline != nil {
		a.Disciplines = spec.Discipline.Name
	}
	if err := tx.Athletes.Upsert(ctx, a); err != nil {
		return model.WinnerRef{}, err
	}
	return a.WinnerRef(), nil
}

// historicalTeam 按出现顺序复用：本次导入中第 n 次出现的 (赛事, 等级, 国家) 对应已有的第 n 枚队伍奖牌，
// 没有则按序号合成新队伍
func (r *WinnerResolver) historicalTeam(ctx context.Context, tx *repository.Store, spec WinnerSpec) (model.WinnerRef, error) {
	if spec.Event == nil || spec.Country == nil || spec.Discipline == nil {
		return model.WinnerRef{}, fmt.Errorf("%w: 合成队伍 ID 需要赛事、国家与分项", apperr.ErrMalformedInput)
	}
	slot := teamSlot{eventID: spec.Event.ID, rank: spec.Rank, country: spec.Country.Code}
	nth := r.seen[slot]
	m, err := tx.Medals.FindTeamMedal(ctx, spec.Event.ID, spec.Rank, spec.Country.Code, nth)
	if err == nil {
		r.seen[slot]++
		return m.Winner, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.WinnerRef{}, err
	}

	prefix := TeamIDPrefix(spec.Discipline.Code, string(spec.Gender), spec.Event.Name, spec.Country.Code, spec.Year)
	id, err := NextTeamID(ctx, tx.Teams, prefix)
	if err != nil {
		return model.WinnerRef{}, err
	}
	t := &model.Team{
		ID:          id,
		CountryCode: spec.Country.Code,
		Gender:      GenderCode(string(spec.Gender)),
		Discipline:  spec.Discipline.Name,
	}
	if err := tx.Teams.Upsert(ctx, t); err != nil {
		return model.WinnerRef{}, err
	}
	r.seen[slot]++
	r.logger.WithFields(logrus.Fields{"team": id, "event": spec.Event.ID}).Debug("合成历史队伍")
	return t.WinnerRef(), nil
}
