package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"MedalTally/internal/apperr"
)

const utf8BOM = "\ufeff"

type csvReader struct {
	src    io.Reader
	r      *csv.Reader
	header []string
}

// NewCSVReader 读取表头并校验必需列；src 实现 io.Closer 时由 Close 关闭
func NewCSVReader(src io.Reader, required []string) (Reader, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: 空文件，缺少表头", apperr.ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: 表头解析失败: %v", apperr.ErrMalformedInput, err)
	}
	have := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		header[i] = h
		have[h] = true
	}
	if err := missingColumns(have, required); err != nil {
		return nil, err
	}
	return &csvReader{src: src, r: r, header: header}, nil
}

func (c *csvReader) Next() (*Record, error) {
	for {
		row, err := c.r.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				// 保留出错前已解析的列，便于人工修正
				return nil, &apperr.RowError{
					Line: pe.StartLine,
					Raw:  c.fields(row),
					Err:  fmt.Errorf("%w: 第 %d 列: %v", apperr.ErrMalformedInput, pe.Column, pe.Err),
				}
			}
			return nil, err
		}
		line, _ := c.r.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		fields := c.fields(row)
		if len(row) != len(c.header) {
			return nil, &apperr.RowError{
				Line: line,
				Raw:  fields,
				Err:  fmt.Errorf("%w: 列数 %d 与表头 %d 不一致", apperr.ErrMalformedInput, len(row), len(c.header)),
			}
		}
		return &Record{Line: line, Fields: fields}, nil
	}
}

// fields 按表头映射，缺失的列不出现
func (c *csvReader) fields(row []string) map[string]string {
	fields := make(map[string]string, len(c.header))
	for i, h := range c.header {
		if i < len(row) {
			fields[h] = row[i]
		}
	}
	return fields
}

func (c *csvReader) Close() error { return closeIf(c.src) }
