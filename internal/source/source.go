// Package source 按行读取 CSV / JSON 数组数据文件
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"MedalTally/internal/apperr"
)

// Format 数据文件格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatOf 按扩展名判断格式
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Record 一行数据；Fields 的键为表头列名
type Record struct {
	Line   int
	Fields map[string]string
}

// Get 取字段并去掉首尾空白
func (r *Record) Get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// Has 字段存在且非空
func (r *Record) Has(col string) bool {
	return r.Get(col) != ""
}

// Reader 逐行读取。
// 读完返回 io.EOF；*apperr.RowError 表示该行损坏可跳过；其他错误为文件级错误
type Reader interface {
	Next() (*Record, error)
	Close() error
}

// Open 打开数据文件并校验必需列
func Open(path string, format Format, required []string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("打开文件 %s 失败: %w", path, err)
	}
	var r Reader
	switch format {
	case FormatCSV:
		r, err = NewCSVReader(f, required)
	case FormatJSON:
		r, err = NewJSONReader(f, required)
	default:
		err = fmt.Errorf("%w: 不支持的文件格式 %q", apperr.ErrMalformedInput, format)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func missingColumns(have map[string]bool, required []string) error {
	var missing []string
	for _, col := range required {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: 缺少必需列 %s", apperr.ErrMalformedInput, strings.Join(missing, ","))
	}
	return nil
}

func closeIf(r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
