package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fraudscope/server/internal/agent/graph"
	"github.com/fraudscope/server/internal/agent/model"
	errx "github.com/fraudscope/server/internal/core/error"
	logx "github.com/fraudscope/server/pkg/logger"
)

// AnalyzeRequest is the /analyze request body.
type AnalyzeRequest struct {
	UserQuery string `json:"user_query"`
}

// AnalyzeResponse is the /analyze response body. Verdict pointers in the
// state flatten to plain booleans here, with "not assessed" reported as
// false.
type AnalyzeResponse struct {
	FinalReasoningSummary *string  `json:"final_reasoning_summary"`
	IsFraudEmail          bool     `json:"is_fraud_email"`
	IsFraudSMS            bool     `json:"is_fraud_sms"`
	IsFraudURL            bool     `json:"is_fraud_url"`
	IsFakeNews            bool     `json:"is_fake_news"`
	IsIrrelevantInput     bool     `json:"is_irrelevant_input"`
	ActionsTaken          []string `json:"actions_taken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AnalyzeHandler serves POST /analyze over a Runner.
type AnalyzeHandler struct {
	runner graph.Runner
}

func NewAnalyzeHandler(runner graph.Runner) *AnalyzeHandler {
	return &AnalyzeHandler{runner: runner}
}

func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	req.UserQuery = strings.TrimSpace(req.UserQuery)
	if req.UserQuery == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_query is required"})
		return
	}

	state, err := h.runner.Analyze(r.Context(), req.UserQuery)
	if err != nil {
		status := http.StatusInternalServerError
		message := errx.SystemErrorMessage
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			status = appErr.Status
			message = appErr.Message
		}
		logx.Error().Err(err).Str("user_query", req.UserQuery).Msg("analysis failed")
		writeJSON(w, status, errorResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusOK, buildResponse(state))
}

func buildResponse(s *model.AnalysisState) AnalyzeResponse {
	resp := AnalyzeResponse{
		IsFraudEmail:      derefBool(s.IsFraudEmail),
		IsFraudSMS:        derefBool(s.IsFraudSMS),
		IsFraudURL:        derefBool(s.IsFraudURL),
		IsFakeNews:        derefBool(s.IsFakeNews),
		IsIrrelevantInput: s.IsIrrelevantInput,
		ActionsTaken:      s.Actions,
	}
	if s.FinalReasoningSummary != "" {
		summary := s.FinalReasoningSummary
		resp.FinalReasoningSummary = &summary
	}
	if resp.ActionsTaken == nil {
		resp.ActionsTaken = []string{}
	}
	return resp
}

func derefBool(p *bool) bool {
	return p != nil && *p
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
