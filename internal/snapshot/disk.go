package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DiskSource serves the page from a local file while it is younger than the TTL,
// otherwise refreshes the file from the network. A failed refresh falls back to
// the stale file.
type DiskSource struct {
	url    string
	path   string
	ttl    time.Duration
	pages  PageFetcher
	logger zerolog.Logger
	now    func() time.Time
	group  singleflight.Group
}

func NewDiskSource(pageURL, dataDir string, pages PageFetcher, logger zerolog.Logger) *DiskSource {
	return &DiskSource{
		url:    pageURL,
		path:   filepath.Join(dataDir, constants.SnapshotFileName),
		ttl:    constants.SnapshotTTL,
		pages:  pages,
		logger: logger,
		now:    time.Now,
	}
}

func (s *DiskSource) Name() string { return string(domain.ProvenanceDisk) }

func (s *DiskSource) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	return shared(ctx, &s.group, s.url, s.load)
}

func (s *DiskSource) load(ctx context.Context) (*domain.Snapshot, error) {
	info, statErr := os.Stat(s.path)
	if statErr == nil && s.now().Sub(info.ModTime()) < s.ttl {
		if snap, err := s.read(info.ModTime()); err == nil {
			return snap, nil
		}
	}

	body, err := s.pages.Fetch(ctx, s.refreshURL())
	if err == nil && len(body) >= constants.SnapshotMinBytes {
		if werr := s.write(body); werr != nil {
			s.logger.Warn().Err(werr).Str("path", s.path).Msg("failed to write page snapshot")
		}
		return &domain.Snapshot{Body: body, RetrievedAt: s.now(), Provenance: domain.ProvenanceDisk}, nil
	}
	if err == nil {
		err = fmt.Errorf("refreshed page too small: %d bytes", len(body))
	}
	s.logger.Debug().Err(err).Str("url", s.url).Msg("page snapshot refresh failed")

	if statErr == nil {
		s.logger.Info().Time("mtime", info.ModTime()).Msg("serving stale page snapshot")
		return s.read(info.ModTime())
	}
	return nil, errors.Join(domain.ErrTransientFetch, err)
}

func (s *DiskSource) refreshURL() string {
	u, err := url.Parse(s.url)
	if err != nil {
		return s.url
	}
	q := u.Query()
	q.Set("ts", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *DiskSource) read(mtime time.Time) (*domain.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Body: string(b), RetrievedAt: mtime, Provenance: domain.ProvenanceDisk}, nil
}

// write replaces the file atomically so readers never see a partial page.
func (s *DiskSource) write(body string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
