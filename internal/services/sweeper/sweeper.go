// Package sweeper removes stored objects that no row points at. Uploads that
// failed their row insert and marketing images whose item was deleted end up
// here.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/princekumarofficial/portfolio-service/internal/services/media"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
)

var prefixes = []string{media.PrefixProjects, media.PrefixMarketing, media.PrefixProfile}

type Report struct {
	Scanned  int      `json:"scanned"`
	Young    int      `json:"young"`
	Orphans  []string `json:"orphans"`
	Removed  int      `json:"removed"`
	Failed   []string `json:"failed,omitempty"`
	DryRun   bool     `json:"dry_run"`
	Duration string   `json:"duration"`
}

type Sweeper struct {
	storage     storage.Storage
	objects     media.ObjectStore
	gracePeriod time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func New(store storage.Storage, objects media.ObjectStore, gracePeriod time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		storage:     store,
		objects:     objects,
		gracePeriod: gracePeriod,
		logger:      logger.With(slog.String("component", "sweeper")),
		now:         time.Now,
	}
}

// referenced collects every object key a row points at.
func (s *Sweeper) referenced(ctx context.Context) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	addURL := func(u string) {
		if key, ok := s.objects.KeyFromURL(u); ok {
			keys[key] = struct{}{}
		}
	}

	files, err := s.storage.ListMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	for _, m := range files {
		keys[m.FilePath] = struct{}{}
	}

	projects, err := s.storage.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		addURL(p.ThumbnailURL)
	}

	items, err := s.storage.ListMarketingItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketing items: %w", err)
	}
	for _, item := range items {
		addURL(item.ImageURL)
	}

	ps, err := s.storage.GetProfileSetting(ctx)
	switch {
	case err == nil:
		addURL(ps.ProfileImageURL)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to read profile setting: %w", err)
	}

	return keys, nil
}

// Sweep removes unreferenced objects older than the grace period. With
// dryRun set it only reports them.
func (s *Sweeper) Sweep(ctx context.Context, dryRun bool) (Report, error) {
	start := s.now()
	report := Report{DryRun: dryRun, Orphans: []string{}}

	keys, err := s.referenced(ctx)
	if err != nil {
		return report, err
	}

	cutoff := start.Add(-s.gracePeriod)
	for _, prefix := range prefixes {
		objects, err := s.objects.ListObjects(ctx, prefix)
		if err != nil {
			return report, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		for _, obj := range objects {
			report.Scanned++
			if _, ok := keys[obj.Key]; ok {
				continue
			}
			if obj.LastModified.After(cutoff) {
				report.Young++
				continue
			}

			report.Orphans = append(report.Orphans, obj.Key)
			if dryRun {
				continue
			}
			if err := s.objects.RemoveObject(ctx, obj.Key); err != nil {
				s.logger.Warn("failed to remove orphaned object",
					slog.String("path", obj.Key),
					slog.String("error", err.Error()))
				report.Failed = append(report.Failed, obj.Key)
				continue
			}
			report.Removed++
		}
	}

	report.Duration = s.now().Sub(start).String()
	return report, nil
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Orphan sweeper started",
		"interval", interval.String(),
		"grace_period", s.gracePeriod.String())

	s.sweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Orphan sweeper shutting down")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	startTime := time.Now()

	report, err := s.Sweep(ctx, false)
	if err != nil {
		s.logger.Error("Failed to sweep orphaned objects",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	s.logger.Info("Completed orphan sweep",
		"scanned", report.Scanned,
		"removed", report.Removed,
		"failed", len(report.Failed),
		"duration_ms", time.Since(startTime).Milliseconds())
}
