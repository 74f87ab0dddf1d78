package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/ledger"
	"github.com/radieske/bet-tracker/internal/store"
	"github.com/radieske/bet-tracker/internal/tracker-service/dto"
	"github.com/radieske/bet-tracker/internal/tracker-service/session"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondErr traduz erros da sessão/store para o status HTTP
func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	respondError(w, status, err.Error())
}

// statusFor testa ErrCorrupt antes das sentinelas de validação: uma linha
// gravada inválida carrega o erro do ledger na cadeia, mas a falha é do servidor.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrCorrupt):
		return http.StatusInternalServerError
	case errors.Is(err, ledger.ErrInvalidOdds),
		errors.Is(err, ledger.ErrInvalidUnits),
		errors.Is(err, ledger.ErrUnknownSport),
		errors.Is(err, ledger.ErrUnknownBetType),
		errors.Is(err, ledger.ErrUnknownResult),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, session.ErrInvalidUnitSize):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
