package downloader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/shelfcovers/internal/book"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
	"github.com/lepinkainen/shelfcovers/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(events <-chan Event) []Event {
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}

func TestJob_CompletesAndClosesEvents(t *testing.T) {
	recordSleeps(t)
	env := testutil.NewTestEnv(t)
	cs := testutil.NewCoverServer(t)

	records := []book.Record{
		book.NewRecord(1, "One", "A", "001", "", cs.Image("/1.jpg", 300)),
		book.NewRecord(2, "Two", "B", "002", "", cs.Image("/2.jpg", 300)),
	}

	var forwarded int
	d := New(testSettings())
	d.OnEvent = func(Event) { forwarded++ }

	job := NewJob(d)
	assert.Equal(t, StateIdle, job.State())

	events, err := job.Start(context.Background(), book.WithCovers(records), env.Path("covers"))
	require.NoError(t, err)

	got := drain(events)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Record.Title)
	assert.Equal(t, "Two", got[1].Record.Title)

	result, err := job.Wait()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, StateCompleted, job.State())
	assert.Equal(t, 2, forwarded, "the downloader's own callback still fires")
}

func TestJob_RejectsSecondStartWhileRunning(t *testing.T) {
	recordSleeps(t)
	env := testutil.NewTestEnv(t)

	release := make(chan struct{})
	started := make(chan struct{})
	d := New(testSettings())
	d.fetch = func(ctx context.Context, opts fileutil.CoverFetchOptions) (int, error) {
		close(started)
		<-release
		return 0, shelferrors.NewDownloadError(shelferrors.KindTransport, opts.URL, context.Canceled)
	}

	records := []book.Record{book.NewRecord(1, "Slow", "A", "001", "", "http://example.invalid/slow.jpg")}

	job := NewJob(d)
	events, err := job.Start(context.Background(), book.WithCovers(records), env.Path("covers"))
	require.NoError(t, err)
	<-started

	assert.Equal(t, StateRunning, job.State())
	_, err = job.Start(context.Background(), book.WithCovers(records), env.Path("covers"))
	assert.ErrorIs(t, err, ErrJobRunning)

	close(release)
	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, OutcomeFailed, got[0].Outcome)

	result, err := job.Wait()
	require.NoError(t, err, "per-item failures do not abort the job")
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, StateCompleted, job.State())
	assert.Equal(t, book.StatusFailed, records[0].Status)
}

func TestJob_AbortsOnFatalError(t *testing.T) {
	recordSleeps(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("blocker", "x")

	records := []book.Record{book.NewRecord(1, "T", "A", "001", "", "http://example.invalid/t.jpg")}

	job := NewJob(New(testSettings()))
	events, err := job.Start(context.Background(), book.WithCovers(records), filepath.Join(env.Path("blocker"), "covers"))
	require.NoError(t, err)

	assert.Empty(t, drain(events))

	_, err = job.Wait()
	assert.True(t, shelferrors.IsBatchFatalError(err))
	assert.Equal(t, StateAborted, job.State())
}

func TestJob_CanRestartAfterFinishing(t *testing.T) {
	recordSleeps(t)
	env := testutil.NewTestEnv(t)
	cs := testutil.NewCoverServer(t)

	records := []book.Record{book.NewRecord(1, "Again", "A", "001", "", cs.Image("/a.jpg", 300))}
	job := NewJob(New(testSettings()))

	for i := 0; i < 2; i++ {
		events, err := job.Start(context.Background(), book.WithCovers(records), env.Path("covers"))
		require.NoError(t, err)
		drain(events)
		result, err := job.Wait()
		require.NoError(t, err)
		assert.Equal(t, 1, result.Downloaded)
	}
	assert.Equal(t, 1, cs.Requests("/a.jpg"))
}

func TestJob_WaitBeforeStart(t *testing.T) {
	job := NewJob(New(testSettings()))
	result, err := job.Wait()
	assert.NoError(t, err)
	assert.Equal(t, Result{}, result)
}
