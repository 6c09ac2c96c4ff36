package queue

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chesspress/internal/content"
	"chesspress/internal/game"
	"chesspress/pkg/logx"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "queue.db"),
		BusyTimeout: time.Second,
	}, logx.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newSQLiteStore(t)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &content.Post{
		ID:          "p1",
		Title:       "Fischer vs Spassky",
		Body:        "Game six, the famous one.",
		Tags:        []string{"chess", "classic"},
		Media:       []string{"https://img.example/board.png"},
		Targets:     []string{"twitter", "telegram"},
		Category:    "analysis",
		ScheduledAt: now,
		Status:      content.StatusScheduled,
		Game: &game.Source{
			Notation: "1. c4 e6",
			Moves:    []string{"c4", "e6"},
			Result:   game.ResultCheckmate,
			Players:  game.Players{White: "Fischer", Black: "Spassky", WhiteRating: 2785, BlackRating: 2660},
		},
		Metrics:   map[string]content.Engagement{"twitter": {Impressions: 10}},
		Results:   []content.TargetResult{{Target: "twitter", OK: true, At: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Create(ctx, p))

	got, err := st.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p.Title, got.Title)
	require.Equal(t, p.Tags, got.Tags)
	require.Equal(t, p.Targets, got.Targets)
	require.Equal(t, content.StatusScheduled, got.Status)
	require.True(t, got.ScheduledAt.Equal(now))
	require.NotNil(t, got.Game)
	require.Equal(t, "Fischer", got.Game.Players.White)
	require.Equal(t, 10, got.Metrics["twitter"].Impressions)
	require.Len(t, got.Results, 1)
}

func TestSQLiteGetMissing(t *testing.T) {
	t.Parallel()
	st := newSQLiteStore(t)
	_, err := st.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, st.Update(context.Background(), &content.Post{ID: "nope"}), ErrNotFound)
	require.ErrorIs(t, st.Delete(context.Background(), "nope"), ErrNotFound)
}

func TestSQLiteScheduledBetween(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newSQLiteStore(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	mk := func(id string, at time.Time, status content.Status) {
		t.Helper()
		require.NoError(t, st.Create(ctx, &content.Post{
			ID:          id,
			Status:      status,
			ScheduledAt: at,
			CreatedAt:   base,
			UpdatedAt:   base,
		}))
	}
	mk("a", base, content.StatusScheduled)
	mk("b", base.Add(30*time.Minute), content.StatusScheduled)
	mk("c", base.Add(2*time.Hour), content.StatusScheduled)
	mk("d", base.Add(10*time.Minute), content.StatusPublished) // wrong status

	got, err := st.ScheduledBetween(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "b", got[1].ID)

	n, err := st.CountScheduledBetween(ctx, time.Time{}, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestSQLiteQueueStateMachine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	q := New(newSQLiteStore(t), logx.Nop())

	id, err := q.Create(ctx, &content.Post{Title: "t", Body: "b", Targets: []string{"twitter"}})
	require.NoError(t, err)
	at := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, q.Schedule(ctx, id, at))

	// Millisecond storage must not lose a post due exactly at the poll
	// instant.
	due, err := q.Due(ctx, at)
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, q.MarkFailed(ctx, id, []content.TargetResult{{Target: "twitter", OK: false, Error: "boom"}}))
	p, err := q.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, content.StatusFailed, p.Status)
	require.Equal(t, "boom", p.Results[0].Error)
}
