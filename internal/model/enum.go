package model

import "strings"

// Gender 赛事性别组别
type Gender string

const (
	GenderMen   Gender = "Men"
	GenderWomen Gender = "Women"
	GenderMixed Gender = "Mixed"
	GenderOpen  Gender = "Open"
)

// Code 单字母编码，用于合成队伍 ID（M/W/X，其余为 O）
func (g Gender) Code() string {
	switch g {
	case GenderMen:
		return "M"
	case GenderWomen:
		return "W"
	case GenderMixed:
		return "X"
	default:
		return "O"
	}
}

// ParseGender 兼容 "Men"/"Women"/"Mixed"/"Open" 以及 M/W/X/O 编码
func ParseGender(s string) (Gender, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MEN", "M", "MALE":
		return GenderMen, true
	case "WOMEN", "W", "FEMALE", "F":
		return GenderWomen, true
	case "MIXED", "X":
		return GenderMixed, true
	case "OPEN", "O":
		return GenderOpen, true
	}
	return "", false
}

// AthleteGender 由赛事组别推断运动员性别，混合/公开组无法推断
func (g Gender) AthleteGender() string {
	switch g {
	case GenderMen:
		return AthleteMale
	case GenderWomen:
		return AthleteFemale
	}
	return ""
}

const (
	AthleteMale   = "Male"
	AthleteFemale = "Female"
)

// Rank 奖牌等级
type Rank string

const (
	RankGold   Rank = "Gold"
	RankSilver Rank = "Silver"
	RankBronze Rank = "Bronze"
)

func (r Rank) Valid() bool {
	return r == RankGold || r == RankSilver || r == RankBronze
}

// Season 届次季节
type Season string

const (
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

func (s Season) Valid() bool {
	return s == SeasonSummer || s == SeasonWinter
}
