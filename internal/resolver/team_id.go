package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
)

const (
	eventFragmentLen = 8
	maxTeamSequence  = 99
)

// GenderCode "Women"/"W" -> "W"，无法识别的归为 O
func GenderCode(s string) string {
	g, ok := model.ParseGender(s)
	if !ok {
		return model.GenderOpen.Code()
	}
	return g.Code()
}

// eventFragment 取赛事名前 8 个字符，不足用 '-' 补齐
func eventFragment(name string) string {
	if utf8.RuneCountInString(name) > eventFragmentLen {
		name = string([]rune(name)[:eventFragmentLen])
	}
	return name + strings.Repeat("-", eventFragmentLen-utf8.RuneCountInString(name))
}

// TeamIDPrefix 分项编码 + 性别编码 + 赛事片段 + 国家 + 年份，大写
func TeamIDPrefix(disciplineCode, gender, eventName, countryCode string, year int) string {
	return strings.ToUpper(fmt.Sprintf("%s%s%s%s%04d",
		disciplineCode, GenderCode(gender), eventFragment(eventName), countryCode, year))
}

// NextTeamID 在同前缀已有 ID 的最大序号上加一；没有则为 01
func NextTeamID(ctx context.Context, teams repository.TeamRepository, prefix string) (string, error) {
	prefix = strings.ToUpper(prefix)
	ids, err := teams.ListIDsWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	last := 0
	for _, id := range ids {
		suffix := strings.TrimPrefix(id, prefix)
		if len(suffix) != 2 {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > last {
			last = n
		}
	}
	if last >= maxTeamSequence {
		return "", fmt.Errorf("%w: 前缀 %s 已用到 %02d", apperr.ErrTeamSequenceExhausted, prefix, last)
	}
	return fmt.Sprintf("%s%02d", prefix, last+1), nil
}

// ParisTeamID 2024 数据集的队伍编码在序号前插入年份：SWMW4X100M-USA01 -> SWMW4X100M-USA202401
func ParisTeamID(code string, year int) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) < 3 {
		return "", apperr.Malformed("team code", code, nil)
	}
	return strings.ToUpper(fmt.Sprintf("%s%04d%s", code[:len(code)-2], year, code[len(code)-2:])), nil
}
