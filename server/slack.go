package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-pkgz/lgr"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// slashCommandHandler handles the /relbot slash command. The signature is
// verified before the body is parsed; the reply must reach Slack within its
// 3 second deadline, so slow paths are acknowledged and answered out of band.
func (s *Server) slashCommandHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Printf("[WARN] failed to parse slash command: %v", err)
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	intent, arg := parseIntent(cmd.Text)
	log.Printf("[INFO] slash command from %s in %s: %s", cmd.UserID, cmd.ChannelID, intent)

	if intent == intentAsk {
		// answering may hit the LLM, ack now and post the answer to the channel
		s.answerLater(r.Context(), cmd.ChannelID, arg)
		s.renderSlashReply(w, r, "Let me check the release notes, I'll post the answer here shortly. :mag:")
		return
	}

	s.renderSlashReply(w, r, s.execute(r.Context(), intent, arg))
}

// eventsHandler handles Events API callbacks: url_verification handshake,
// app mentions and direct messages. Slack retries on slow acks, so callbacks
// are acknowledged immediately and processed in the background.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	event, err := slackevents.ParseEvent(body, slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Printf("[WARN] failed to parse event: %v", err)
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			RenderError(w, r, err, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge.Challenge)); err != nil {
			log.Printf("[WARN] failed to write challenge response: %v", err)
		}

	case slackevents.CallbackEvent:
		s.dispatchCallback(r.Context(), event.InnerEvent)
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// dispatchCallback routes a callback event to the command dispatcher in a
// background goroutine, the handler acks before the reply is ready
func (s *Server) dispatchCallback(ctx context.Context, inner slackevents.EventsAPIInnerEvent) {
	switch ev := inner.Data.(type) {
	case *slackevents.AppMentionEvent:
		text := stripMentions(ev.Text)
		s.replyLater(ctx, ev.Channel, text)

	case *slackevents.MessageEvent:
		// direct messages only, everything from bots (ourselves included) is ignored
		if ev.ChannelType != "im" || ev.BotID != "" || ev.SubType != "" {
			return
		}
		s.replyLater(ctx, ev.Channel, ev.Text)

	default:
		lgr.Printf("[DEBUG] ignoring event type %T", ev)
	}
}

// replyLater classifies the message and posts the reply to the channel
func (s *Server) replyLater(ctx context.Context, channel, text string) {
	intent, arg := classifyMessage(text)
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		reply := s.execute(bgCtx, intent, arg)
		s.post(bgCtx, channel, reply)
	}()
}

// answerLater answers a question in the background and posts it to the channel
func (s *Server) answerLater(ctx context.Context, channel, question string) {
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		reply := s.askReply(bgCtx, question)
		s.post(bgCtx, channel, reply)
	}()
}

// post sends a message to a channel, logging failures
func (s *Server) post(ctx context.Context, channel, text string) {
	if s.slack == nil {
		log.Printf("[WARN] no slack client configured, dropping reply to %s", channel)
		return
	}
	if _, _, err := s.slack.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false)); err != nil {
		log.Printf("[ERROR] failed to post message to %s: %v", channel, err)
	}
}

// verifiedBody reads the request body and checks the Slack signature.
// On failure it writes the error response and returns ok=false.
func (s *Server) verifiedBody(w http.ResponseWriter, r *http.Request) (body []byte, ok bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return nil, false
	}

	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		log.Printf("[WARN] failed to init signature verifier: %v", err)
		RenderError(w, r, err, http.StatusBadRequest)
		return nil, false
	}
	if _, err := sv.Write(body); err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return nil, false
	}
	if err := sv.Ensure(); err != nil {
		log.Printf("[WARN] slack signature verification failed: %v", err)
		RenderError(w, r, err, http.StatusUnauthorized)
		return nil, false
	}
	return body, true
}

// renderSlashReply writes an in-channel slash command response
func (s *Server) renderSlashReply(w http.ResponseWriter, r *http.Request, text string) {
	RenderJSON(w, r, http.StatusOK, map[string]string{
		"response_type": "in_channel",
		"text":          text,
	})
}
