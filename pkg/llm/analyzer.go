// Package llm implements summarization and question answering over release
// entries using an OpenAI-compatible API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/relbot/pkg/config"
	"github.com/umputun/relbot/pkg/domain"
)

// Analyzer generates summaries and answers from release entries
type Analyzer struct {
	client        *openai.Client
	config        config.LLMConfig
	summaryPrompt string
}

// NewAnalyzer creates a new LLM analyzer
func NewAnalyzer(cfg config.LLMConfig) *Analyzer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	// use custom summary prompt if provided, otherwise use default
	summaryPrompt := cfg.SummaryPrompt
	if summaryPrompt == "" {
		summaryPrompt = defaultSummaryPrompt
	}

	return &Analyzer{
		client:        openai.NewClientWithConfig(clientConfig),
		config:        cfg,
		summaryPrompt: summaryPrompt,
	}
}

const defaultSummaryPrompt = `Summarize these product release notes in 5 key bullet points.
Focus on what changed for users: new features, behavior changes, fixes.
Write directly about the changes themselves. Never use phrases like "The release notes describe" or "This update covers".
Keep each bullet to one or two sentences.`

const answerSystemPrompt = `You are an assistant that answers questions about a product's release notes.
Answer only from the provided context. If the context does not cover the question, say so plainly instead of guessing.
Keep answers short and concrete, mention the release date when it is relevant.`

// Summarize generates a digest of the given release entries
func (a *Analyzer) Summarize(ctx context.Context, entries []domain.ReleaseEntry) (string, error) {
	if len(entries) == 0 {
		return "", &domain.AIError{Reason: domain.AIMalformed, Err: errors.New("no entries to summarize")}
	}

	var sb strings.Builder
	sb.WriteString(a.summaryPrompt)
	sb.WriteString("\n\nRelease notes:\n")
	for _, e := range limitEntries(entries, a.config.SummarizeMaxEntries) {
		sb.WriteString(fmt.Sprintf("%s - %s: %s\n", formatDate(e), e.Title, truncate(e.Text, 500)))
	}

	return a.complete(ctx, "", sb.String())
}

// Answer responds to a question using the current summary and entries as context
func (a *Analyzer) Answer(ctx context.Context, question string, summary string, entries []domain.ReleaseEntry) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", &domain.AIError{Reason: domain.AIMalformed, Err: errors.New("empty question")}
	}

	var sb strings.Builder
	sb.WriteString("Context:\n")
	if summary != "" {
		sb.WriteString("Overall summary:\n")
		sb.WriteString(summary)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Release notes:\n")
	for _, e := range limitEntries(entries, a.config.AnswerMaxEntries) {
		sb.WriteString(fmt.Sprintf("%s: %s - %s\n", formatDate(e), e.Title, truncate(e.Text, 800)))
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)

	return a.complete(ctx, answerSystemPrompt, sb.String())
}

// complete runs a single chat completion and maps failures to the AI error taxonomy
func (a *Analyzer) complete(ctx context.Context, system, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:       a.config.Model,
		Temperature: float32(a.config.Temperature),
		MaxTokens:   a.config.MaxTokens,
		Messages:    messages,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &domain.AIError{Reason: classifyAPIError(err), Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &domain.AIError{Reason: domain.AIMalformed, Err: errors.New("no response from llm")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyAPIError maps go-openai errors to AI failure reasons
func classifyAPIError(err error) domain.AIReason {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return domain.AIQuota
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return domain.AIMalformed
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return domain.AIQuota
	}
	return domain.AINetwork
}

// limitEntries caps the number of entries included in a prompt
func limitEntries(entries []domain.ReleaseEntry, limit int) []domain.ReleaseEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// truncate cuts text to at most limit bytes without splitting a rune,
// appending an ellipsis
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit] + "..."
}

// formatDate renders an entry date for prompts, "unknown date" when unset
func formatDate(e domain.ReleaseEntry) string {
	if e.Published.IsZero() {
		return "unknown date"
	}
	return e.Published.Format("2006-01-02")
}
