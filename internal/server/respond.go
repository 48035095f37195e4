package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"cogentcore.org/core/base/iox/jsonx"
	"github.com/go-chi/chi/v5/middleware"

	"slicerweb/internal/slicerr"
)

// errorBody is the JSON shape of every failure.
type errorBody struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	RequestID   string `json:"requestId,omitempty"`
	Suggestions any    `json:"suggestions,omitempty"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}

	switch slicerr.KindOf(err) {
	case slicerr.KindInvalid:
		return http.StatusBadRequest
	case slicerr.KindNotFound:
		return http.StatusNotFound
	case slicerr.KindBusy:
		return http.StatusConflict
	case slicerr.KindEngineFault:
		return http.StatusUnprocessableEntity
	case slicerr.KindNetwork:
		return http.StatusBadGateway
	case slicerr.KindNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := jsonx.Write(v, w); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorWith(w, r, err, nil)
}

func (s *Server) writeErrorWith(w http.ResponseWriter, r *http.Request, err error, suggestions any) {
	status := statusFor(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		level = slog.LevelError
	}

	s.logger.Log(r.Context(), level, "request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err))

	kind := slicerr.KindOf(err).String()
	if status == http.StatusGatewayTimeout || status == 499 {
		kind = "canceled"
	}

	s.writeJSON(w, status, errorBody{
		Error:       kind,
		Message:     slicerr.Message(err),
		RequestID:   middleware.GetReqID(r.Context()),
		Suggestions: suggestions,
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := jsonx.Read(v, http.MaxBytesReader(w, r.Body, s.maxBody)); err != nil {
		return slicerr.Wrap(slicerr.KindInvalid, "server.decode", "body", err)
	}

	return nil
}
