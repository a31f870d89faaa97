package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"study_planner_backend/internal/util"
	"time"
)

// StepDraft AI 回复中一个步骤对象逐字段校验、补默认值后的结果
type StepDraft struct {
	Order      int
	Name       string
	TopicTitle string
	Bullets    []string
	ETA        *string
	DueDate    *time.Time
	Resource   *string
}

const defaultStepOrder = 1

var errNotArray = errors.New("top-level JSON value is not an array")

// ParseRoadmapSteps 把回复解析为步骤列表；start/end 用于解析和约束 due_date
func ParseRoadmapSteps(reply string, start, end time.Time) ([]StepDraft, error) {
	body := stripCodeFence(reply)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errNotArray
		}
		return nil, err
	}
	// "null" 能被解码成 nil 切片
	if items == nil {
		return nil, errNotArray
	}

	drafts := make([]StepDraft, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			// 非对象元素无法映射为步骤
			continue
		}
		drafts = append(drafts, decodeStep(fields, start, end))
	}
	return drafts, nil
}

func decodeStep(fields map[string]json.RawMessage, start, end time.Time) StepDraft {
	d := StepDraft{Order: defaultStepOrder}

	// 只有缺失或 0 取默认值，负数原样保留
	if n, ok := intField(fields["step_order"]); ok && n != 0 {
		d.Order = n
	}
	if s, ok := scalarString(fields["step_name"]); ok {
		d.Name = strings.TrimSpace(s)
	}
	if s, ok := scalarString(fields["topic_title"]); ok {
		d.TopicTitle = strings.TrimSpace(s)
	}
	d.Bullets = stringList(fields["bullet_points"])
	d.ETA = optionalString(fields["eta"])
	d.Resource = optionalString(fields["resource"])

	if s, ok := scalarString(fields["due_date"]); ok {
		if due, ok := parseDueDate(s, start, end); ok {
			d.DueDate = &due
		}
	}
	return d
}

// stripCodeFence 去掉模型常见的 ```json ... ``` 包裹
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// scalarString 字符串原样返回，数字和布尔值取其字面量
func scalarString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	t := bytes.TrimSpace(raw)
	switch t[0] {
	case '{', '[':
		return "", false
	}
	return string(t), true
}

func optionalString(raw json.RawMessage) *string {
	s, ok := scalarString(raw)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// intField 接受整数、整数值的浮点数和数字字符串
func intField(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return 0, false
		}
		return int(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// stringList 缺失返回 nil；单个字符串视为只有一项的列表
func stringList(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s, ok := scalarString(raw); ok {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
			continue
		}
		if !isNull(item) {
			out = append(out, string(bytes.TrimSpace(item)))
		}
	}
	return out
}

// parseDueDate 解析 YYYY-MM-DD（容忍带时间的写法），超出范围时夹到 [start, end]
func parseDueDate(s string, start, end time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(util.DateFormat) {
		s = s[:len(util.DateFormat)]
	}
	due, err := util.ParseDate(s, start.Location())
	if err != nil {
		return time.Time{}, false
	}
	if due.Before(start) {
		due = start
	}
	if due.After(end) {
		due = end
	}
	return due, true
}
