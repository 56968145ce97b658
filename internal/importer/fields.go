package importer

import (
	"strconv"
	"strings"
	"time"

	"MedalTally/internal/apperr"
	"MedalTally/internal/source"

	"gorm.io/datatypes"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func parseTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Malformed(field, s, nil)
}

// optionalDate 空值返回 nil
func optionalDate(rec *source.Record, field string) (*datatypes.Date, error) {
	if !rec.Has(field) {
		return nil, nil
	}
	t, err := parseTime(field, rec.Get(field))
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d, nil
}

func optionalFloat(rec *source.Record, field string) (*float64, error) {
	if !rec.Has(field) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(rec.Get(field), 64)
	if err != nil {
		return nil, apperr.Malformed(field, rec.Get(field), err)
	}
	return &v, nil
}

// optionalInt 兼容 "3.0" 这类浮点写法
func optionalInt(rec *source.Record, field string) (*int, error) {
	f, err := optionalFloat(rec, field)
	if err != nil || f == nil {
		return nil, err
	}
	n := int(*f)
	return &n, nil
}

func requiredInt(rec *source.Record, field string) (int, error) {
	n, err := optionalInt(rec, field)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, apperr.Malformed(field, "", nil)
	}
	return *n, nil
}

func requiredString(rec *source.Record, field string) (string, error) {
	if !rec.Has(field) {
		return "", apperr.Malformed(field, "", nil)
	}
	return rec.Get(field), nil
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// base 导入器公共部分
type base struct {
	name     string
	file     string
	format   source.Format
	required []string
	deps     *Deps
}

func (b *base) Name() string              { return b.name }
func (b *base) FileName() string          { return b.file }
func (b *base) Format() source.Format     { return b.format }
func (b *base) RequiredColumns() []string { return b.required }
