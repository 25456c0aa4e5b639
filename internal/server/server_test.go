package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"
	"tier-resolver/internal/middleware"
	"tier-resolver/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	tier      domain.DisplayResult
	tierErr   error
	rank      domain.RankDisplay
	rankErr   error
	writeErr  error
	lastMode  string
	lastCode  string
	lastRank  string
	lastPts   int
	resets    int
	listCalls int
}

func (f *fakeEngine) ResolveTier(_ context.Context, username, mode string) (domain.DisplayResult, error) {
	f.lastMode = mode
	res := f.tier
	res.Username = username
	return res, f.tierErr
}

func (f *fakeEngine) ResolveRank(_ context.Context, username string) (domain.RankDisplay, error) {
	return f.rank, f.rankErr
}

func (f *fakeEngine) ResolveEloTag(_ context.Context, username string) (domain.DisplayResult, error) {
	return f.tier, f.tierErr
}

func (f *fakeEngine) ResolveVanillaTier(_ context.Context, username, mode string) (domain.DisplayResult, error) {
	return f.tier, f.tierErr
}

func (f *fakeEngine) ListOverrides(_ context.Context, username string) (*service.OverrideListing, error) {
	f.listCalls++
	return &service.OverrideListing{Username: username}, f.writeErr
}

func (f *fakeEngine) SetTierOverride(_ context.Context, username, mode, code string) (*domain.Override, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if _, err := domain.ParseTierCode(code); err != nil {
		return nil, err
	}
	f.lastMode, f.lastCode = mode, code
	return &domain.Override{Username: username, Mode: &mode}, nil
}

func (f *fakeEngine) SetRankOverride(_ context.Context, username, rank string) (*domain.Override, error) {
	f.lastRank = rank
	return &domain.Override{Username: username, CombatRank: &rank}, f.writeErr
}

func (f *fakeEngine) SetPointsOverride(_ context.Context, username string, points int) (*domain.Override, error) {
	f.lastPts = points
	return &domain.Override{Username: username, Points: &points}, f.writeErr
}

func (f *fakeEngine) ResetOverrides(_ context.Context, username string) (int64, error) {
	f.resets++
	return 2, f.writeErr
}

func newTestServer(engine Engine) http.Handler {
	return newTierServer(engine, "secret", metrics.New(), zerolog.Nop()).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if admin {
		req.Header.Set(middleware.AdminTokenHeader, "secret")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGetTier(t *testing.T) {
	engine := &fakeEngine{tier: domain.DisplayResult{Mode: "pot", Code: "HT3", Source: domain.SourceVanillaList}}
	rec := do(t, newTestServer(engine), http.MethodGet, "/v1/players/Steve/tiers/pot", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "HT3 (VNL)", body["display"])
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "Steve", body["username"])
	assert.Equal(t, "pot", engine.lastMode)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetTier_NoDataIsNotAnError(t *testing.T) {
	engine := &fakeEngine{tier: domain.DisplayResult{Source: domain.SourceNone}, tierErr: domain.ErrNoData}
	rec := do(t, newTestServer(engine), http.MethodGet, "/v1/players/Nobody/tiers/axe", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "N/A", body["display"])
	assert.Equal(t, false, body["available"])
}

func TestGetTier_ValidationError(t *testing.T) {
	engine := &fakeEngine{tierErr: &domain.ValidationError{Field: "mode", Reason: "unknown"}}
	rec := do(t, newTestServer(engine), http.MethodGet, "/v1/players/Steve/tiers/chess", "", false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "mode")
}

func TestGetRank(t *testing.T) {
	engine := &fakeEngine{rank: domain.RankDisplay{Username: "Kai", Rank: "V", Source: domain.RankSourceOverride, Color: "#FF55FF"}}
	rec := do(t, newTestServer(engine), http.MethodGet, "/v1/players/Kai/rank", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "V", body["display"])
	assert.Equal(t, "#FF55FF", body["color"])
}

func TestGetEloAndVanillaRoutes(t *testing.T) {
	engine := &fakeEngine{tier: domain.DisplayResult{Code: "LT4", Source: domain.SourceElo}}
	h := newTestServer(engine)

	rec := do(t, h, http.MethodGet, "/v1/players/Nova/elo-tier", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LT4 (ELO)", decode(t, rec)["display"])

	rec = do(t, h, http.MethodGet, "/v1/players/Nova/vanilla/sword", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestServer(engine)

	rec := do(t, h, http.MethodDelete, "/v1/admin/players/Steve/overrides", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, engine.resets)

	rec = do(t, h, http.MethodGet, "/v1/admin/players/Steve/overrides", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, engine.listCalls)
}

func TestSetTierOverride(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestServer(engine)

	rec := do(t, h, http.MethodPut, "/v1/admin/players/Steve/tiers/pot", `{"code":"HT2"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pot", engine.lastMode)
	assert.Equal(t, "HT2", engine.lastCode)

	rec = do(t, h, http.MethodPut, "/v1/admin/players/Steve/tiers/pot", `{"code":"XX"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/v1/admin/players/Steve/tiers/pot", `{`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetRankAndPoints(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestServer(engine)

	rec := do(t, h, http.MethodPut, "/v1/admin/players/Kai/rank", `{"rank":"X"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X", engine.lastRank)

	rec = do(t, h, http.MethodPut, "/v1/admin/players/Kai/points", `{"points":30}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, engine.lastPts)

	rec = do(t, h, http.MethodPut, "/v1/admin/players/Kai/points", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetOverrides(t *testing.T) {
	engine := &fakeEngine{}
	rec := do(t, newTestServer(engine), http.MethodDelete, "/v1/admin/players/steve/overrides", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Steve", body["username"])
	assert.Equal(t, float64(2), body["removed"])
}

func TestStoreWriteErrorIsInternal(t *testing.T) {
	engine := &fakeEngine{writeErr: errors.New("disk full")}
	rec := do(t, newTestServer(engine), http.MethodPut, "/v1/admin/players/Kai/rank", `{"rank":"X"}`, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(&fakeEngine{})
	do(t, h, http.MethodGet, "/v1/players/Steve/rank", "", false)

	rec := do(t, h, http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tier_resolver_http_request_duration_seconds")
}
