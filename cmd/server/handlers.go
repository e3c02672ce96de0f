package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/worldofchami/shopassist/pkg/router"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies on every endpoint.
const maxBodyBytes = 1 << 20

// chatRequest is the payload accepted by the /chat endpoint.
type chatRequest struct {
	Prompt string `json:"prompt"`
}

// chatResponse is the JSON shape returned by the /chat endpoint.
type chatResponse struct {
	SessionID string `json:"session_id"`
	Output    string `json:"output"`
}

type server struct {
	router    *router.Router
	assistant *Assistant
	sender    messageSender
	logger    *zap.Logger
	token     string

	// pending tracks webhook replies still being sent.
	pending sync.WaitGroup
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.With(router.BearerAuth(s.token)).Post("/tools/{tool}", s.handleTool)
	r.Post("/chat", s.handleChat)
	r.Post("/twilio/webhook", s.handleTwilioWebhook)
	return r
}

// handleTool runs one tool through the request router. The body is a JSON
// object of parameters; an empty body means no parameters.
func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	resp := s.router.Handle(r.Context(), router.Request{
		ToolName: chi.URLParam(r, "tool"),
		Params:   params,
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	response, err := s.assistant.Reply(r.Context(), sessionID, "", req.Prompt)
	if err != nil {
		s.logger.Error("chat failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-ID", sessionID)
	if err := json.NewEncoder(w).Encode(chatResponse{SessionID: sessionID, Output: response}); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// handleTwilioWebhook answers an inbound WhatsApp/SMS message. The reply is
// sent through the Twilio API after the webhook has been acknowledged.
func (s *server) handleTwilioWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	from := r.FormValue("From")
	body := strings.TrimSpace(r.FormValue("Body"))
	if from == "" || body == "" {
		http.Error(w, "Missing From or Body", http.StatusBadRequest)
		return
	}

	phone := formatPhoneNumber(from)
	logger := s.logger.With(zap.String("from", phone), zap.String("message_sid", r.FormValue("MessageSid")))
	logger.Info("received message", zap.Int("length", len(body)))

	response, err := s.assistant.Reply(r.Context(), phone, phone, body)
	if err != nil {
		logger.Error("agent failed", zap.Error(err))
		response = "Sorry, I ran into a problem answering that. Please try again in a moment."
	}

	if response != "" && s.sender != nil && s.sender.IsConfigured() {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			if err := s.sender.SendMessage(phone, response); err != nil {
				logger.Error("failed to send reply", zap.Error(err))
				return
			}
			logger.Info("reply sent")
		}()
	}

	w.WriteHeader(http.StatusOK)
}

// wait blocks until every queued webhook reply has been sent or ctx ends.
func (s *server) wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
