package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/reel"
	"github.com/fwojciec/reel/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptArchive(t *testing.T) {
	t.Parallel()
	t.Run("delegates to function fields", func(t *testing.T) {
		t.Parallel()
		rec := reel.ScriptRecord{ID: "r1", Title: "Snail"}
		var saved *reel.ScriptRecord
		var gotFilter reel.ArchiveFilter
		var deleted string
		a := mock.ScriptArchive{
			SaveFn: func(_ context.Context, r *reel.ScriptRecord) error { saved = r; return nil },
			GetFn: func(_ context.Context, id string) (*reel.ScriptRecord, error) {
				if id != rec.ID {
					return nil, reel.ErrNotFound
				}
				return &rec, nil
			},
			ListFn: func(_ context.Context, f reel.ArchiveFilter) ([]reel.ScriptRecord, error) {
				gotFilter = f
				return []reel.ScriptRecord{rec}, nil
			},
			DeleteFn: func(_ context.Context, id string) error { deleted = id; return nil },
		}
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, &rec))
		assert.Same(t, &rec, saved)

		got, err := a.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Snail", got.Title)
		_, err = a.Get(ctx, "missing")
		assert.ErrorIs(t, err, reel.ErrNotFound)

		list, err := a.List(ctx, reel.ArchiveFilter{ProjectID: "p1", Match: "Sn*"})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, reel.ArchiveFilter{ProjectID: "p1", Match: "Sn*"}, gotFilter)

		require.NoError(t, a.Delete(ctx, "r1"))
		assert.Equal(t, "r1", deleted)
	})

	t.Run("panics when SaveFn not set", func(t *testing.T) {
		t.Parallel()
		a := mock.ScriptArchive{}
		assert.Panics(t, func() { _ = a.Save(context.Background(), &reel.ScriptRecord{}) })
	})
}
