package interfaces

import "context"

// FlagResolver 为国家生成国旗图片地址，失败时返回兜底地址（不返回错误）
type FlagResolver interface {
	ResolveFlagURL(ctx context.Context, countryName, iso2 string) string
}

// Prompter 校验失败时向操作员询问地址，空字符串表示使用占位图
type Prompter interface {
	PromptFlagURL(countryName string) (string, error)
}
