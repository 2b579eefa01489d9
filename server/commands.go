package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/umputun/relbot/pkg/domain"
	"github.com/umputun/relbot/pkg/service"
)

// intent is what the user wants from the bot
type intent string

const (
	intentSummary intent = "summary"
	intentAsk     intent = "ask"
	intentStatus  intent = "status"
	intentRefresh intent = "refresh"
	intentHelp    intent = "help"
)

const notReadyReply = "I'm still preparing the release notes data, give me a minute and try again. :hourglass_flowing_sand:"

var mentionRe = regexp.MustCompile(`<@[A-Z0-9]+>`)

// summaryKeywords mark a free-form message as a summary request
var summaryKeywords = []string{"summary", "ringkasan", "rangkuman", "rangkum", "rilis terbaru"}

// questionMarkers mark a free-form message as a question
var questionMarkers = []string{"apa", "apakah", "bagaimana", "gimana", "kapan", "kenapa", "mengapa",
	"berapa", "what", "how", "when", "why", "which", "does", "is there", "can i"}

// parseIntent splits slash command text into an intent and its argument.
// Empty text defaults to the summary, unknown subcommands are treated as
// questions so "/relbot what changed in march" just works.
func parseIntent(text string) (intent, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return intentSummary, ""
	}

	sub, rest, _ := strings.Cut(text, " ")
	switch strings.ToLower(sub) {
	case "summary":
		return intentSummary, ""
	case "ask":
		return intentAsk, strings.TrimSpace(rest)
	case "status":
		return intentStatus, ""
	case "refresh":
		return intentRefresh, ""
	case "help":
		return intentHelp, ""
	default:
		return intentAsk, text
	}
}

// classifyMessage routes a mention or DM by keyword heuristics: summary
// requests and question-like messages are recognized, anything else gets help
func classifyMessage(text string) (intent, string) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	if lower == "" {
		return intentHelp, ""
	}
	for _, kw := range summaryKeywords {
		if strings.Contains(lower, kw) {
			return intentSummary, ""
		}
	}
	if strings.Contains(lower, "status") {
		return intentStatus, ""
	}
	if strings.Contains(lower, "?") {
		return intentAsk, text
	}
	for _, marker := range questionMarkers {
		if strings.HasPrefix(lower, marker+" ") {
			return intentAsk, text
		}
	}
	return intentHelp, ""
}

// stripMentions removes <@USERID> tokens from a mention text
func stripMentions(text string) string {
	return strings.TrimSpace(mentionRe.ReplaceAllString(text, ""))
}

// execute runs an intent against the query service and formats the reply
func (s *Server) execute(ctx context.Context, in intent, arg string) string {
	switch in {
	case intentSummary:
		return s.summaryReply(ctx)
	case intentAsk:
		return s.askReply(ctx, arg)
	case intentStatus:
		return s.statusReply()
	case intentRefresh:
		return s.refreshReply(ctx)
	default:
		return helpText
	}
}

func (s *Server) summaryReply(ctx context.Context) string {
	view, err := s.query.GetSummary(ctx)
	if errors.Is(err, service.ErrNotReady) {
		return notReadyReply
	}
	if err != nil {
		log.Printf("[ERROR] failed to get summary: %v", err)
		return "Something went wrong getting the summary, please try again later."
	}

	reply := fmt.Sprintf("*Latest Release Notes* _(updated %s ago)_\n\n%s",
		humanizeDuration(view.Age), view.Text)
	if view.Stale {
		reply += "\n\n_This summary may be out of date, a refresh is due._"
	}
	return reply
}

func (s *Server) askReply(ctx context.Context, question string) string {
	view, err := s.query.Ask(ctx, question)
	switch {
	case errors.Is(err, service.ErrEmptyQuestion):
		return "Ask me something about the release notes, for example: `/relbot ask what's new this month?`"
	case errors.Is(err, service.ErrNotReady):
		return notReadyReply
	case err != nil:
		log.Printf("[WARN] failed to answer question %q: %v", question, err)
		var aiErr *domain.AIError
		if errors.As(err, &aiErr) && aiErr.Reason == domain.AIQuota {
			return "The answering service is over its limit right now, please try again in a few minutes."
		}
		return "I couldn't generate an answer right now, please try again."
	}

	reply := view.Text
	if view.Stale {
		reply += "\n\n_Note: this answer is based on data that may be out of date._"
	}
	return reply
}

func (s *Server) statusReply() string {
	view := s.query.Status()

	var b strings.Builder
	b.WriteString("*Bot Status*\n")
	switch view.Status {
	case domain.RefreshRunning:
		fmt.Fprintf(&b, "• Refresh: running since %s ago\n", humanizeDuration(time.Since(view.StartedAt)))
	case domain.RefreshFailed:
		fmt.Fprintf(&b, "• Refresh: last attempt failed (%s)\n", view.LastError)
	default:
		b.WriteString("• Refresh: idle\n")
	}
	if view.HasSummary {
		fmt.Fprintf(&b, "• Summary: v%d, generated %s ago\n", view.SummaryVersion, humanizeDuration(view.SummaryAge))
	} else {
		b.WriteString("• Summary: not generated yet\n")
	}
	if !view.LastSuccess.IsZero() {
		fmt.Fprintf(&b, "• Last successful refresh: %s ago\n", humanizeDuration(time.Since(view.LastSuccess)))
	}
	fmt.Fprintf(&b, "• Release notes: %d, cached answers: %d", view.Entries, view.CachedAnswers)
	return b.String()
}

func (s *Server) refreshReply(ctx context.Context) string {
	ack := s.query.Refresh(ctx, "manual")
	if !ack.Started {
		return "A data refresh is already in progress, hold on. :arrows_counterclockwise:"
	}
	return "Data refresh started, I'll post a notice here when it's done. :arrows_counterclockwise:"
}

const helpText = "*I can help you with release notes.*\n" +
	"• `/relbot summary` - latest release notes summary\n" +
	"• `/relbot ask <question>` - answer a question about the releases\n" +
	"• `/relbot status` - refresh state and data counts\n" +
	"• `/relbot refresh` - force a data refresh\n" +
	"You can also mention me or DM me with a question."

// humanizeDuration renders a duration in the largest sensible unit
func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
