// Package compose 基于检索结果生成日语叙事文章
package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ai_news_daily/internal/logger"
	"github.com/iWorld-y/ai_news_daily/internal/search"
)

// DisplayDateFormat 文章标题使用的日期格式
const DisplayDateFormat = "2006年01月02日"

// maxSourceChars 单条来源正文进入提示词的最大长度
const maxSourceChars = 8000

const systemPrompt = `あなたは経験豊富なAI技術ジャーナリストです。
提供された情報源を深く分析し、読者に分かりやすく魅力的な記事を作成してください。

重要な要件:
- 各AIニュースについて、独立したセクションを作成する
- 各セクションには明確な「タイトル」と詳細な「内容」を含める
- 箇条書きは使用せず、流れるようなナラティブ（物語的）な文章で書く
- 技術的な内容を一般読者にも理解できるよう噛み砕いて説明する
- 各ニュースの背景、意義、影響を深く掘り下げる
- 専門用語には簡単な説明を添える
- 引用元は文中に自然に織り込む（例: 「〜によると[1]」）
- 最後に「引用元一覧」セクションを追加し、[番号] URL の形式で列挙

文章スタイル:
- 読者を引き込む導入文から始める
- 「である」調の落ち着いた文体
- 具体例や比喩を用いて理解を促進
- 各段落は3-5文程度で構成
- ニュース間の関連性があれば言及する
- 日本語で出力`

const userPromptTpl = `本日（%s）のAI関連ニュースを以下の情報源から深く分析して日本語で出力してください。

【情報源】
%s

【出力形式】
# 本日のAI技術ニュース - %s

[導入部: 今日のAIニュース全体の概要を2-3段落で]

## [ニュース1のタイトル]

[ナラティブ形式の詳細な内容。3-5段落程度]

## [ニュース2のタイトル]

[ナラティブ形式の詳細な内容。3-5段落程度]

[以降、重要なニュースごとに同様のセクションを作成]

---

## 引用元一覧
[1] [URL]
[2] [URL]
...`

// Composer 调用本地 LLM 生成文章。失败不向上传递错误，
// 而是返回含排查指引的诊断文本，流水线继续往下走。
type Composer struct {
	cm      model.BaseChatModel
	model   string
	limiter *rate.Limiter
}

// NewComposer 创建叙事生成器
func NewComposer(cm model.BaseChatModel, modelName string, limiter *rate.Limiter) *Composer {
	return &Composer{cm: cm, model: modelName, limiter: limiter}
}

// Compose 把来源列表写成日语叙事文章，displayDate 为空时用今天
func (c *Composer) Compose(ctx context.Context, sources []search.Result, displayDate string) string {
	if displayDate == "" {
		displayDate = time.Now().Format(DisplayDateFormat)
	}

	packed := make([]string, 0, len(sources))
	for i, s := range sources {
		packed = append(packed, fmt.Sprintf(
			"[ソース%d]\nタイトル: %s\nURL: %s\n内容:\n%s\n",
			i+1, s.Title, s.URL, clip(s.Content, maxSourceChars)))
	}
	separator := "\n\n" + strings.Repeat("=", 50) + "\n\n"
	sourcesText := strings.Join(packed, separator)

	if err := c.limiter.Wait(ctx); err != nil {
		return c.diagnostic(err)
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: fmt.Sprintf(userPromptTpl, displayDate, sourcesText, displayDate)},
	}

	resp, err := c.cm.Generate(ctx, messages)
	if err != nil {
		logger.Log.Errorf("叙事生成失败: %v", err)
		return c.diagnostic(err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "(応答なし)"
	}
	return content
}

func (c *Composer) diagnostic(err error) string {
	return fmt.Sprintf(
		"Error during analysis: %v\n\nPlease ensure Ollama is running locally and %s model is installed.\nRun: ollama pull %s",
		err, c.model, c.model)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
