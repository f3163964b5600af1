package compose

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ai_news_daily/internal/search"
)

// fakeChatModel 模拟 LLM，记录收到的消息
type fakeChatModel struct {
	reply    string
	err      error
	messages []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.messages = in
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func newTestComposer(cm model.BaseChatModel) *Composer {
	return NewComposer(cm, "gemma3:4b", rate.NewLimiter(rate.Inf, 1))
}

func TestComposeSuccess(t *testing.T) {
	fake := &fakeChatModel{reply: "# 本日のAI技術ニュース\n\n本文。"}
	c := newTestComposer(fake)

	sources := []search.Result{
		{Title: "タイトルA", URL: "http://a.example", Content: "内容A"},
		{Title: "タイトルB", URL: "http://b.example", Content: "内容B"},
	}
	got := c.Compose(context.Background(), sources, "2025年01月02日")
	if got != fake.reply {
		t.Errorf("Compose() = %q, want model reply", got)
	}

	if len(fake.messages) != 2 {
		t.Fatalf("messages len = %d, want system + user", len(fake.messages))
	}
	if fake.messages[0].Role != schema.System {
		t.Errorf("messages[0].Role = %v, want system", fake.messages[0].Role)
	}
	if !strings.Contains(fake.messages[0].Content, "AI技術ジャーナリスト") {
		t.Errorf("system prompt missing journalist persona")
	}

	user := fake.messages[1].Content
	for _, want := range []string{
		"2025年01月02日",
		"[ソース1]",
		"[ソース2]",
		"http://a.example",
		"引用元一覧",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestComposeClipsLongContent(t *testing.T) {
	fake := &fakeChatModel{reply: "ok"}
	c := newTestComposer(fake)

	long := strings.Repeat("x", maxSourceChars+1000)
	c.Compose(context.Background(), []search.Result{{URL: "http://a.example", Content: long}}, "2025年01月02日")

	user := fake.messages[1].Content
	if !strings.Contains(user, strings.Repeat("x", maxSourceChars)) {
		t.Error("user prompt missing clipped content")
	}
	if strings.Contains(user, strings.Repeat("x", maxSourceChars+1)) {
		t.Error("user prompt content not clipped")
	}
}

func TestComposeDefaultDate(t *testing.T) {
	fake := &fakeChatModel{reply: "ok"}
	c := newTestComposer(fake)

	c.Compose(context.Background(), []search.Result{{URL: "http://a.example"}}, "")
	want := time.Now().Format(DisplayDateFormat)
	if !strings.Contains(fake.messages[1].Content, want) {
		t.Errorf("user prompt missing default date %q", want)
	}
}

func TestComposeErrorReturnsDiagnostic(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("connection refused")}
	c := newTestComposer(fake)

	got := c.Compose(context.Background(), []search.Result{{URL: "http://a.example"}}, "2025年01月02日")
	for _, want := range []string{"Error during analysis", "connection refused", "ollama pull gemma3:4b"} {
		if !strings.Contains(got, want) {
			t.Errorf("diagnostic missing %q, got %q", want, got)
		}
	}
}

func TestComposeEmptyReply(t *testing.T) {
	fake := &fakeChatModel{reply: "  \n "}
	c := newTestComposer(fake)

	got := c.Compose(context.Background(), []search.Result{{URL: "http://a.example"}}, "2025年01月02日")
	if got != "(応答なし)" {
		t.Errorf("Compose() = %q, want placeholder for empty reply", got)
	}
}
