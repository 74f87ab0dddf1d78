package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/bet-tracker/internal/ledger"
	"github.com/radieske/bet-tracker/internal/tracker-service/dto"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// tracker devolve métricas + linhas filtradas.
// Filtros: view=All|Open|Closed e listas sport, bet_type, result (repetidas ou separadas por vírgula).
func (s *Server) tracker(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := s.sess.Summary(r.Context(), s.now())
	if err != nil {
		s.respondErr(w, err)
		return
	}
	rows, err := s.sess.Rows(r.Context(), f)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	out := dto.TrackerResponse{
		UnitSize: s.sess.UnitSize(),
		Summary:  dto.NewSummaryView(sum),
		Rows:     make([]dto.BetRow, 0, len(rows)),
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, dto.NewBetRow(row))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) addBet(w http.ResponseWriter, r *http.Request) {
	var req dto.AddBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}

	in, err := s.betInput(req)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	index, b, err := s.sess.Add(r.Context(), in)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewBetRow(ledger.Row{Index: index, Bet: b}))
}

func (s *Server) updateResult(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req dto.UpdateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	result, err := ledger.ParseResult(req.Result)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	b, err := s.sess.UpdateResult(r.Context(), index, result)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBetRow(ledger.Row{Index: index, Bet: b}))
}

func (s *Server) deleteBet(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := s.sess.Delete(r.Context(), index); err != nil {
		s.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// calendar aceita apenas o ano anterior, o atual e o próximo
func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, month := now.Year(), now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < now.Year()-1 || y > now.Year()+1 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("year must be between %d and %d", now.Year()-1, now.Year()+1))
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(m)
	}

	cal, err := s.sess.Calendar(r.Context(), year, month)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCalendarResponse(cal))
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.SettingsResponse{UnitSize: s.sess.UnitSize()})
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.sess.SetUnitSize(req.UnitSize); err != nil {
		s.respondErr(w, err)
		return
	}
	if msg, ok := s.summaryMsg(); ok {
		s.hub.Broadcast(msg)
	}
	respondJSON(w, http.StatusOK, dto.SettingsResponse{UnitSize: s.sess.UnitSize()})
}

// betInput converte o formulário; data vazia = hoje, resultado vazio = pending
func (s *Server) betInput(req dto.AddBetRequest) (ledger.BetInput, error) {
	in := ledger.BetInput{
		BetLine: strings.TrimSpace(req.BetLine),
		Odds:    req.Odds,
		Units:   req.Units,
		Result:  ledger.ResultPending,
	}

	in.Date = ledger.Day(s.now())
	if strings.TrimSpace(req.Date) != "" {
		d, err := ledger.ParseDate(req.Date)
		if err != nil {
			return ledger.BetInput{}, err
		}
		in.Date = d
	}

	sport, err := ledger.ParseSport(req.Sport)
	if err != nil {
		return ledger.BetInput{}, err
	}
	in.Sport = sport

	betType, err := ledger.ParseBetType(req.BetType)
	if err != nil {
		return ledger.BetInput{}, err
	}
	in.BetType = betType

	if strings.TrimSpace(req.Result) != "" {
		result, err := ledger.ParseResult(req.Result)
		if err != nil {
			return ledger.BetInput{}, err
		}
		in.Result = result
	}
	return in, nil
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return index, true
}

func parseFilter(r *http.Request) (ledger.Filter, error) {
	q := r.URL.Query()

	view, err := ledger.ParseView(q.Get("view"))
	if err != nil {
		return ledger.Filter{}, err
	}
	f := ledger.Filter{View: view}

	for _, v := range queryList(q["sport"]) {
		sp, err := ledger.ParseSport(v)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.Sports = append(f.Sports, sp)
	}
	for _, v := range queryList(q["bet_type"]) {
		bt, err := ledger.ParseBetType(v)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.BetTypes = append(f.BetTypes, bt)
	}
	for _, v := range queryList(q["result"]) {
		res, err := ledger.ParseResult(v)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.Results = append(f.Results, res)
	}
	return f, nil
}

func queryList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
