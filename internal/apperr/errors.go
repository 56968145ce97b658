// Package apperr 导入流水线的错误分类：文件级错误终止本次导入，行级错误跳过该行继续。
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound          = errors.New("file not found")
	ErrMalformedInput        = errors.New("malformed input")
	ErrDanglingReference     = errors.New("dangling reference")
	ErrAmbiguousNameMapping  = errors.New("ambiguous name mapping")
	ErrExternalLookup        = errors.New("external lookup failure")
	ErrDuplicateMedal        = errors.New("duplicate medal")
	ErrTeamSequenceExhausted = errors.New("team sequence exhausted")
)

// Kind 错误类别（用于日志与 import_skips.kind）
type Kind string

const (
	KindFileNotFound          Kind = "FileNotFound"
	KindMalformedInput        Kind = "MalformedInput"
	KindDanglingReference     Kind = "DanglingReference"
	KindHostNotFound          Kind = "HostNotFound"
	KindAmbiguousNameMapping  Kind = "AmbiguousNameMapping"
	KindExternalLookup        Kind = "ExternalLookupFailure"
	KindDuplicateMedal        Kind = "DuplicateMedal"
	KindTeamSequenceExhausted Kind = "TeamSequenceExhausted"
	KindUnknown               Kind = "Unknown"
)

// ReferenceError 引用的实体不存在且无法创建
type ReferenceError struct {
	Entity string // country / host / discipline / event / athlete / team
	Key    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %q 不存在", e.Entity, e.Key)
}

// Is 使 errors.Is(err, ErrDanglingReference) 成立
func (e *ReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// Dangling 构造实体缺失错误
func Dangling(entity, key string) error {
	return &ReferenceError{Entity: entity, Key: key}
}

// HostNotFound 主办届次缺失，依赖它的赛事/奖牌行都无法写入
func HostNotFound(slug string) error {
	return &ReferenceError{Entity: "host", Key: slug}
}

// Malformed 包装单字段解析失败
func Malformed(field, value string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: 字段 %s=%q: %v", ErrMalformedInput, field, value, err)
	}
	return fmt.Errorf("%w: 字段 %s=%q", ErrMalformedInput, field, value)
}

// RowError 行级错误，保留行号与原始行以便人工修正
type RowError struct {
	Line int
	Raw  map[string]string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("第 %d 行: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// KindOf 将错误归类
func KindOf(err error) Kind {
	var ref *ReferenceError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ref) && ref.Entity == "host":
		return KindHostNotFound
	case errors.Is(err, ErrDanglingReference):
		return KindDanglingReference
	case errors.Is(err, ErrFileNotFound):
		return KindFileNotFound
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, ErrAmbiguousNameMapping):
		return KindAmbiguousNameMapping
	case errors.Is(err, ErrExternalLookup):
		return KindExternalLookup
	case errors.Is(err, ErrDuplicateMedal):
		return KindDuplicateMedal
	case errors.Is(err, ErrTeamSequenceExhausted):
		return KindTeamSequenceExhausted
	default:
		return KindUnknown
	}
}

// IsFileLevel 文件级错误终止整个导入
func IsFileLevel(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}
