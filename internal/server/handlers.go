package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type tierResponse struct {
	domain.DisplayResult
	Display   string `json:"display"`
	Available bool   `json:"available"`
}

type rankResponse struct {
	domain.RankDisplay
	Display   string `json:"display"`
	Available bool   `json:"available"`
}

type setTierRequest struct {
	Code string `json:"code"`
}

type setRankRequest struct {
	Rank string `json:"rank"`
}

type setPointsRequest struct {
	Points *int `json:"points"`
}

type resetResponse struct {
	Username string `json:"username"`
	Removed  int64  `json:"removed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func engineContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), constants.RequestTimeout)
}

func (s *TierServer) getTier(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := engineContext(r)
	defer cancel()

	res, err := s.engine.ResolveTier(ctx, chi.URLParam(r, "username"), chi.URLParam(r, "mode"))
	s.writeTier(w, r, res, err)
}

func (s *TierServer) getEloTier(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := engineContext(r)
	defer cancel()

	res, err := s.engine.ResolveEloTag(ctx, chi.URLParam(r, "username"))
	s.writeTier(w, r, res, err)
}

func (s *TierServer) getVanillaTier(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := engineContext(r)
	defer cancel()

	res, err := s.engine.ResolveVanillaTier(ctx, chi.URLParam(r, "username"), chi.URLParam(r, "mode"))
	s.writeTier(w, r, res, err)
}

func (s *TierServer) getRank(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := engineContext(r)
	defer cancel()

	res, err := s.engine.ResolveRank(ctx, chi.URLParam(r, "username"))
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{RankDisplay: res, Display: res.Display(), Available: res.Available()})
}

func (s *TierServer) listOverrides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := engineContext(r)
	defer cancel()

	listing, err := s.engine.ListOverrides(ctx, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *TierServer) setTier(w http.ResponseWriter, r *http.Request) {
	var req setTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	ctx, cancel := engineContext(r)
	defer cancel()

	row, err := s.engine.SetTierOverride(ctx, chi.URLParam(r, "username"), chi.URLParam(r, "mode"), req.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *TierServer) setRank(w http.ResponseWriter, r *http.Request) {
	var req setRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	ctx, cancel := engineContext(r)
	defer cancel()

	row, err := s.engine.SetRankOverride(ctx, chi.URLParam(r, "username"), req.Rank)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *TierServer) setPoints(w http.ResponseWriter, r *http.Request) {
	var req setPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if req.Points == nil {
		s.writeError(w, r, &domain.ValidationError{Field: "points", Reason: "missing"})
		return
	}
	ctx, cancel := engineContext(r)
	defer cancel()

	row, err := s.engine.SetPointsOverride(ctx, chi.URLParam(r, "username"), *req.Points)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *TierServer) resetOverrides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := engineContext(r)
	defer cancel()

	username := chi.URLParam(r, "username")
	n, err := s.engine.ResetOverrides(ctx, username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Username: domain.CanonicalName(username), Removed: n})
}

// writeTier renders exhausted lookups as a normal response with available=false.
func (s *TierServer) writeTier(w http.ResponseWriter, r *http.Request, res domain.DisplayResult, err error) {
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tierResponse{DisplayResult: res, Display: res.Display(), Available: res.Available()})
}

func (s *TierServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsValidation(err) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
