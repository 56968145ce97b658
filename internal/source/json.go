package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"MedalTally/internal/apperr"
)

type jsonReader struct {
	src      io.Reader
	dec      *json.Decoder
	required []string
	index    int
	done     bool
}

// NewJSONReader 流式读取对象数组；顶层不是数组视为文件格式错误
func NewJSONReader(src io.Reader, required []string) (Reader, error) {
	dec := json.NewDecoder(src)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: JSON 解析失败: %v", apperr.ErrMalformedInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: JSON 顶层必须是数组", apperr.ErrMalformedInput)
	}
	return &jsonReader{src: src, dec: dec, required: required}, nil
}

func (j *jsonReader) Next() (*Record, error) {
	if j.done || !j.dec.More() {
		if !j.done {
			j.done = true
			if _, err := j.dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: JSON 数组未正常结束: %v", apperr.ErrMalformedInput, err)
			}
		}
		return nil, io.EOF
	}

	var obj map[string]interface{}
	if err := j.dec.Decode(&obj); err != nil {
		j.done = true
		return nil, fmt.Errorf("%w: 第 %d 个元素: %v", apperr.ErrMalformedInput, j.index+1, err)
	}
	j.index++

	fields := make(map[string]string, len(obj))
	have := make(map[string]bool, len(obj))
	for k, v := range obj {
		fields[k] = stringify(v)
		have[k] = true
	}
	if err := missingColumns(have, j.required); err != nil {
		// 首个元素即缺列说明整个文件结构不对
		if j.index == 1 {
			j.done = true
			return nil, err
		}
		return nil, &apperr.RowError{Line: j.index, Raw: fields, Err: err}
	}
	return &Record{Line: j.index, Fields: fields}, nil
}

func (j *jsonReader) Close() error { return closeIf(j.src) }

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
