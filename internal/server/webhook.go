package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/synchronize"
)

const (
	headerEvent     = "X-GitHub-Event"
	headerSignature = "X-Hub-Signature-256"
	maxPayloadBytes = 25 << 20
)

var acceptedEvents = map[string]bool{
	"pull_request":        true,
	"pull_request_review": true,
}

type response struct {
	Status string `json:"status"`
	TaskID string `json:"task_id,omitempty"`
	Error  string `json:"error,omitempty"`
	Moves  int    `json:"moves,omitempty"`
}

// Verify checks a sha256=<hex> signature of payload
func Verify(secret string, payload []byte, signature string) bool {
	sum, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sum)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature header value GitHub sends for payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Webhook handles one GitHub delivery
func Webhook(pass PassFunc, secret string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := log.With(zap.String("request_id", middleware.GetReqID(r.Context())))

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err != nil {
			respond(w, log, http.StatusBadRequest, response{Status: "error", Error: "cannot read payload"})
			return
		}
		if !Verify(secret, body, r.Header.Get(headerSignature)) {
			log.Warn("rejected delivery with invalid signature")
			respond(w, log, http.StatusUnauthorized, response{Status: "error", Error: "invalid signature"})
			return
		}

		name := r.Header.Get(headerEvent)
		if name == "ping" {
			respond(w, log, http.StatusOK, response{Status: "pong"})
			return
		}
		if !acceptedEvents[name] {
			log.Info("ignoring event", zap.String("event", name))
			respond(w, log, http.StatusAccepted, response{Status: "ignored"})
			return
		}

		ev, err := github.ParseEvent(name, body)
		if err != nil {
			respond(w, log, http.StatusBadRequest, response{Status: "error", Error: err.Error()})
			return
		}
		if ev.MergeGroup || ev.PullRequest == nil {
			log.Info("event carries no pull request to synchronize", zap.String("event", name))
			respond(w, log, http.StatusAccepted, response{Status: "ignored"})
			return
		}

		// retries wait up to minutes, longer than GitHub keeps the delivery open.
		// A pass that has started mutating the task runs to completion.
		res, err := pass(context.WithoutCancel(r.Context()), ev)
		out := response{Status: "ok"}
		if res != nil {
			out.TaskID, out.Moves = res.TaskID, res.Moves
		}
		switch {
		case err == nil:
			respond(w, log, http.StatusOK, out)
		case errors.Is(err, synchronize.ErrTaskNotCompleted):
			out.Status, out.Error = "blocked", err.Error()
			respond(w, log, http.StatusConflict, out)
		default:
			log.Error("synchronization failed", zap.Error(err))
			out.Status, out.Error = "error", err.Error()
			respond(w, log, http.StatusInternalServerError, out)
		}
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func respond(w http.ResponseWriter, log *zap.Logger, status int, data response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to write json response", zap.Error(err))
	}
}
