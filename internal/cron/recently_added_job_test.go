package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
)

type stubSweeper struct {
	cutoff time.Time
	rows   int64
	err    error
}

func (s *stubSweeper) ClearRecentlyAddedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.rows, s.err
}

func TestRecentlyAddedJobUsesWindowCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	sweeper := &stubSweeper{rows: 7}
	job, err := NewRecentlyAddedJob(RecentlyAddedJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		ProductRepo: sweeper,
		Window:      14 * 24 * time.Hour,
		Now:         func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("building job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := now.Add(-14 * 24 * time.Hour)
	if !sweeper.cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", sweeper.cutoff, want)
	}
}

func TestRecentlyAddedJobPropagatesError(t *testing.T) {
	t.Parallel()

	sweeper := &stubSweeper{err: errors.New("boom")}
	job, err := NewRecentlyAddedJob(RecentlyAddedJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		ProductRepo: sweeper,
	})
	if err != nil {
		t.Fatalf("building job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecentlyAddedJobRequiresRepo(t *testing.T) {
	t.Parallel()

	_, err := NewRecentlyAddedJob(RecentlyAddedJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err == nil {
		t.Fatal("expected constructor error")
	}
}
