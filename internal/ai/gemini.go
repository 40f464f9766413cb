// Package ai generates the dashboard insight text and the daily quote
// through the Gemini API. Every call has a hardcoded Bengali fallback so
// the pages render even when the model is unreachable.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	genai "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"tahbil/internal/bangla"
	"tahbil/internal/core"
)

// InsightGenerator is the port the dashboard and the worker depend on.
type InsightGenerator interface {
	FundInsight(ctx context.Context, l core.Ledger) (string, error)
	DailyQuote(ctx context.Context) (string, error)
}

// Fallback texts shown when the model call fails.
const (
	FallbackInsight = "তহবিলের হিসাব নিয়মিত রাখুন। প্রতি মাসের চাঁদা সময়মতো আদায় হলে তহবিল সুস্থ থাকে।"
	FallbackQuote   = "দান করলে সম্পদ কমে না, বরং বরকত বাড়ে।"
)

type GeminiClient struct {
	svc   *genai.Service
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	svc, err := genai.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}

	return &GeminiClient{svc: svc, model: "models/" + model}, nil
}

// FundInsight asks the model for a short Bengali commentary on the
// current fund numbers. The error is returned alongside the fallback
// text so callers can log it and still render something.
func (c *GeminiClient) FundInsight(ctx context.Context, l core.Ledger) (string, error) {
	prompt := insightPrompt(l)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "Gemini insight failed, using fallback", "error", err)
		return FallbackInsight, err
	}
	return text, nil
}

// DailyQuote asks the model for one short Bengali saying about charity
// and community.
func (c *GeminiClient) DailyQuote(ctx context.Context) (string, error) {
	prompt := "এক বাক্যে দান, সহযোগিতা বা সমাজকল্যাণ নিয়ে একটি অনুপ্রেরণামূলক বাংলা উক্তি লিখুন। শুধু উক্তিটি দিন, অন্য কিছু নয়।"
	text, err := c.generate(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "Gemini quote failed, using fallback", "error", err)
		return FallbackQuote, err
	}
	return text, nil
}

func insightPrompt(l core.Ledger) string {
	var b strings.Builder
	b.WriteString("আপনি একটি গ্রামের কল্যাণ তহবিলের হিসাবরক্ষকের সহকারী। নিচের সংখ্যাগুলো দেখে বাংলায় দুই-তিন বাক্যের একটি সংক্ষিপ্ত পর্যালোচনা লিখুন।\n")
	fmt.Fprintf(&b, "মোট আদায়: %s টাকা\n", bangla.Number(l.TotalCollections().Amount))
	fmt.Fprintf(&b, "মোট খরচ: %s টাকা\n", bangla.Number(l.TotalExpenses().Amount))
	fmt.Fprintf(&b, "বর্তমান তহবিল: %s টাকা\n", bangla.Number(l.Balance().Amount))
	fmt.Fprintf(&b, "সক্রিয় সদস্য: %s জন\n", bangla.Number(int64(len(l.ActiveMembers()))))
	return b.String()
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	req := &genai.GenerateContentRequest{
		Contents: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
	}

	resp, err := c.svc.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", errors.New("empty model response")
}
