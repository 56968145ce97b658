package resolver

import (
	"fmt"
	"strings"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var genderMarkers = map[string]model.Gender{
	"women's": model.GenderWomen,
	"women":   model.GenderWomen,
	"girls'":  model.GenderWomen,
	"girls":   model.GenderWomen,
	"girl's":  model.GenderWomen,
	"girl":    model.GenderWomen,
	"men's":   model.GenderMen,
	"men":     model.GenderMen,
	"boys'":   model.GenderMen,
	"boys":    model.GenderMen,
	"boy's":   model.GenderMen,
	"boy":     model.GenderMen,
	"mixed":   model.GenderMixed,
}

// 标题不含性别标记时按大项推断
var sportGenders = map[string]model.Gender{
	"artistic swimming":   model.GenderWomen,
	"rhythmic gymnastics": model.GenderWomen,
	"equestrian":          model.GenderOpen,
}

// SplitEventTitle "Women's 100m Freestyle" -> (Women, "100m Freestyle")
// sport 仅在标题没有性别标记时用于推断
func SplitEventTitle(title, sport string) (model.Gender, string, error) {
	title = strings.TrimSpace(strings.ReplaceAll(title, "’", "'"))
	if title == "" {
		return "", "", apperr.Malformed("event", title, nil)
	}

	var gender model.Gender
	words := strings.Fields(title)
	kept := words[:0]
	for _, w := range words {
		if g, ok := genderMarkers[strings.ToLower(w)]; ok {
			if gender == "" {
				gender = g
			}
			continue
		}
		kept = append(kept, w)
	}
	if gender != "" {
		return gender, strings.Join(kept, " "), nil
	}
	if g, ok := sportGenders[strings.ToLower(strings.TrimSpace(sport))]; ok {
		return g, title, nil
	}
	return "", "", fmt.Errorf("%w: 无法从 %q 拆分出性别与赛事名", apperr.ErrAmbiguousNameMapping, title)
}

// ParseRank "GOLD"、"Gold Medal"、"bronze" -> Rank
func ParseRank(s string) (model.Rank, error) {
	raw := s
	s = strings.TrimSpace(s)
	if i := strings.Index(strings.ToLower(s), " medal"); i >= 0 {
		s = s[:i]
	}
	rank := model.Rank(cases.Title(language.English).String(strings.ToLower(s)))
	if !rank.Valid() {
		return "", apperr.Malformed("medal_type", raw, nil)
	}
	return rank, nil
}
