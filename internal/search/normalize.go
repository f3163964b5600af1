package search

import (
	"bytes"
	"encoding/json"
)

// Normalize 将任意 JSON 负载规整为规范化结果序列。
// 负载为数组时逐元素处理；为对象时优先取名为 results 的字段，
// 其次 data，否则取文档顺序中第一个值为数组的字段。
// 每条候选记录按 url|link、title|name、content|snippet|text 取值，
// 缺少非空 url 的记录被静默丢弃（唯一的校验规则），输出保持输入顺序。
func Normalize(payload []byte) []Result {
	items := candidateItems(payload)
	if len(items) == 0 {
		return nil
	}

	out := make([]Result, 0, len(items))
	for _, raw := range items {
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		r := Result{
			URL:     firstString(item, "url", "link"),
			Title:   firstString(item, "title", "name"),
			Content: firstString(item, "content", "snippet", "text"),
		}
		if r.URL == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// candidateItems 提取候选记录数组。
// map 解码会丢失字段顺序，这里用 token 流按文档顺序扫描对象字段。
func candidateItems(payload []byte) []json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		return items
	}
	if trimmed[0] != '{' {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil
	}

	var results, data, firstList []json.RawMessage
	var haveResults, haveData, haveFirst bool
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil
		}
		items, ok := asList(val)
		if !ok {
			continue
		}
		switch key {
		case "results":
			if !haveResults {
				results, haveResults = items, true
			}
		case "data":
			if !haveData {
				data, haveData = items, true
			}
		default:
			if !haveFirst {
				firstList, haveFirst = items, true
			}
		}
	}

	switch {
	case haveResults:
		return results
	case haveData:
		return data
	default:
		return firstList
	}
}

func asList(raw json.RawMessage) ([]json.RawMessage, bool) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || v[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, false
	}
	return items, true
}

// firstString 按优先级返回首个非空字符串字段
func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
