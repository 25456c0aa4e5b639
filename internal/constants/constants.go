package constants

import "time"

const (
	// Disk page snapshot freshness, measured against the file mtime.
	SnapshotTTL = 6 * time.Hour
	// Refreshed snapshots shorter than this are error pages and never written.
	SnapshotMinBytes = 500
	SnapshotFileName = "vanillalist_live.html"
)

const (
	PageConnectTimeout = 4 * time.Second
	PageReadTimeout    = 4 * time.Second
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	OverrideEventLimit = 20
	PageUserAgent      = "Mozilla/5.0 (compatible; tier-resolver/1.0)"
	PageAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)
