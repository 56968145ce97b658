package model

// WinnerKind 获奖者类型
type WinnerKind string

const (
	WinnerAthlete WinnerKind = "athlete"
	WinnerTeam    WinnerKind = "team"
)

func (k WinnerKind) Valid() bool {
	return k == WinnerAthlete || k == WinnerTeam
}

// WinnerRef 奖牌对获奖者的弱引用（tagged union：类型 + ID）
// 仅嵌入 medals 表，索引标签参与 uq_medal_key
type WinnerRef struct {
	Kind WinnerKind `gorm:"column:kind;type:varchar(16);not null;uniqueIndex:uq_medal_key,priority:3" json:"kind"`
	ID   string     `gorm:"column:id;type:varchar(264);not null;uniqueIndex:uq_medal_key,priority:4" json:"id"`
}

func (r WinnerRef) String() string { return string(r.Kind) + ":" + r.ID }

// Winner 由 *Athlete 与 *Team 实现
type Winner interface {
	WinnerRef() WinnerRef
	String() string
}
