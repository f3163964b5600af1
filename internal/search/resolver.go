package search

import (
	"context"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
)

// Resolver 按固定优先级串行尝试各后端，接受第一个非空结果集。
// 层级之间不合并结果；层级切换只发生在上一层级无结果时。
// 全部落空时返回空集，这不是错误，由上层呈现为"未找到来源"。
type Resolver struct {
	adapters []Adapter
}

// NewResolver 创建回退解析器，adapters 即启动时装配好的优先级列表
func NewResolver(adapters []Adapter) *Resolver {
	return &Resolver{adapters: adapters}
}

// Resolve 执行一轮回退检索
func (r *Resolver) Resolve(ctx context.Context, q Query) []Result {
	for _, a := range r.adapters {
		results := a.Search(ctx, q)
		if len(results) > 0 {
			logger.Log.Infof("后端 %s 命中 %d 条结果", a.Name(), len(results))
			return results
		}
		logger.Log.Debugf("后端 %s 无结果，切换下一层级", a.Name())
	}
	logger.Log.Warn("所有后端均无结果")
	return nil
}
