package search

// Collect 对已规范化、已完成层级回退的结果序列做一次遍历：
// 按 URL 去重（首次出现者保留），凑满 max 条不同记录即停止。
// 去重与最终条数限制只发生在这里。
func Collect(results []Result, max int) []Result {
	if max <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, min(max, len(results)))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
		if len(out) >= max {
			break
		}
	}
	return out
}
