package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"tier-resolver/internal/cache"
	"tier-resolver/internal/config"
	"tier-resolver/internal/database"
	"tier-resolver/internal/db"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"
	"tier-resolver/internal/repository"
	"tier-resolver/internal/scraper"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><body><table>
<tr><th>#</th><th>Player</th><th>Tiers</th></tr>
<tr><td>1</td><td><span data-name="Alex">Alex</span></td><td>
<div class="tier-mode-container"><img src="/modes/sword.svg"><span class="player-tier">HT2</span></div>
<div class="tier-mode-container"><img src="/modes/diapot.svg"><span class="player-tier">LT3</span></div>
</td></tr>
<tr><td>2</td><td><span data-name="Steve">Steve</span></td><td>
<div class="tier-mode-container"><img src="/modes/crystal.svg"><span class="player-tier">HT3</span></div>
</td></tr>
</table></body></html>`

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*domain.PlayerProfile
	err      error
	calls    int
}

func (f *fakeProfiles) FetchProfile(_ context.Context, username string) (*domain.PlayerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.profiles[username]; ok {
		return p, nil
	}
	return domain.UnregisteredProfile(username), domain.ErrNotRegistered
}

func (f *fakeProfiles) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSnapshots struct {
	body  string
	err   error
	calls int
}

func (f *fakeSnapshots) Snapshot(context.Context) (*domain.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Snapshot{Body: f.body, Provenance: domain.ProvenanceLive}, nil
}

type fakeElo struct {
	values map[string]string
	err    error
	calls  int
}

func (f *fakeElo) GetElo(_ context.Context, username string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[username]
	if !ok {
		return "", domain.ErrOffline
	}
	return v, nil
}

// brokenStore fails every operation.
type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) Get(context.Context, string, *string) (*domain.Override, error) {
	return nil, errStoreDown
}

func (brokenStore) List(context.Context, string) ([]domain.Override, error) {
	return nil, errStoreDown
}

func (brokenStore) Merge(context.Context, string, *string, domain.OverridePatch) (*domain.Override, error) {
	return nil, errStoreDown
}

func (brokenStore) MergeFunc(context.Context, string, *string, func(*domain.Override) (domain.OverridePatch, bool)) (*domain.Override, error) {
	return nil, errStoreDown
}

func (brokenStore) DeleteAll(context.Context, string) (int64, error) {
	return 0, errStoreDown
}

// hookedStore wraps the real store to run a concurrent write right after a
// global-row read, or to fail global-row reads.
type hookedStore struct {
	*repository.OverrideRepository
	afterGlobalGet func()
	failGlobalGet  bool
}

func (s *hookedStore) Get(ctx context.Context, username string, mode *string) (*domain.Override, error) {
	if mode == nil && s.failGlobalGet {
		return nil, errStoreDown
	}
	o, err := s.OverrideRepository.Get(ctx, username, mode)
	if mode == nil && s.afterGlobalGet != nil {
		hook := s.afterGlobalGet
		s.afterGlobalGet = nil
		hook()
	}
	return o, err
}

type harness struct {
	resolver  *Resolver
	store     *repository.OverrideRepository
	events    *repository.EventRepository
	profiles  *fakeProfiles
	snapshots *fakeSnapshots
	elo       *fakeElo
	metrics   *metrics.Metrics
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "overrides.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sqlDB := newTestDB(t)
	queries := db.New(sqlDB)
	m := metrics.New()

	h := &harness{
		store:     repository.NewOverrideRepository(sqlDB, queries, zerolog.Nop()),
		events:    repository.NewEventRepository(sqlDB, queries, zerolog.Nop()),
		profiles:  &fakeProfiles{profiles: map[string]*domain.PlayerProfile{}},
		snapshots: &fakeSnapshots{body: testPage},
		elo:       &fakeElo{values: map[string]string{}},
		metrics:   m,
	}
	vanilla := NewVanillaService(cache.NewTierMapCache(m), h.snapshots, scraper.NewDOMExtractor(), zerolog.Nop())
	h.resolver = NewResolver(h.store, h.events, h.profiles, vanilla, NewEloService(h.elo, zerolog.Nop()), m, zerolog.Nop())
	return h
}

func registered(name string, points int, rankings map[string]domain.RankingEntry) *domain.PlayerProfile {
	if rankings == nil {
		rankings = map[string]domain.RankingEntry{}
	}
	return &domain.PlayerProfile{Name: name, Region: "EU", Rankings: rankings, Points: points, Registered: true}
}
