package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"calcform/internal/calculation"
)

type factory func(t *testing.T) Repository

func repositories() map[string]factory {
	return map[string]factory{
		"memory": func(t *testing.T) Repository {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Repository {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "calc.db"), zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func record(n1, n2, n3 float64, op calculation.Operator) *calculation.Calculation {
	in := calculation.Input{Number1: n1, Number2: n2, Number3: n3, Operator: op}
	result, _, err := calculation.Compute(in)
	if err != nil {
		panic(err)
	}
	return calculation.New(in, result)
}

func recordIDs(recs []calculation.Calculation) []uint {
	out := make([]uint, 0, len(recs))
	for _, c := range recs {
		out = append(out, c.ID)
	}
	return out
}

func TestRepositoryContract(t *testing.T) {
	for name, newRepo := range repositories() {
		t.Run(name, func(t *testing.T) {
			t.Run("insert assigns monotonic ids and timestamps", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				first := record(6, 3, 2, calculation.OpDivide)
				id1, err := repo.Insert(ctx, first)
				require.NoError(t, err)

				second := record(2, 3, 4, calculation.OpAdd)
				id2, err := repo.Insert(ctx, second)
				require.NoError(t, err)

				assert.Equal(t, first.ID, id1)
				assert.Greater(t, id2, id1)
				assert.False(t, first.CreatedAt.IsZero())
			})

			t.Run("get returns the stored record", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				c := record(0.1, -2.5, 1e-7, calculation.OpMultiply)
				id, err := repo.Insert(ctx, c)
				require.NoError(t, err)

				got, err := repo.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, c.Input(), got.Input())
				assert.Equal(t, c.Result, got.Result)
				assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Millisecond)
			})

			t.Run("get missing id", func(t *testing.T) {
				repo := newRepo(t)

				_, err := repo.Get(context.Background(), 42)
				assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
			})

			t.Run("list recent is capped and newest first", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				var ids []uint
				for i := 0; i < 13; i++ {
					id, err := repo.Insert(ctx, record(float64(i), 1, 1, calculation.OpAdd))
					require.NoError(t, err)
					ids = append(ids, id)
				}

				got, err := repo.ListRecent(ctx, RecentLimit)
				require.NoError(t, err)
				require.Len(t, got, RecentLimit)

				for i, c := range got {
					assert.Equal(t, ids[len(ids)-1-i], c.ID)
				}
				for i := 1; i < len(got); i++ {
					assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
				}
			})

			t.Run("list filters by operator", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				for _, op := range []calculation.Operator{calculation.OpAdd, calculation.OpDivide, calculation.OpAdd, calculation.OpSubtract} {
					_, err := repo.Insert(ctx, record(8, 2, 2, op))
					require.NoError(t, err)
				}

				got, err := repo.List(ctx, Filter{Operator: calculation.OpAdd, Limit: 50})
				require.NoError(t, err)
				require.Len(t, got, 2)
				for _, c := range got {
					assert.Equal(t, calculation.OpAdd, c.Operator)
				}
			})

			t.Run("list filters by creation window", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				var recs []*calculation.Calculation
				for i := 0; i < 3; i++ {
					c := record(float64(i), 1, 1, calculation.OpAdd)
					_, err := repo.Insert(ctx, c)
					require.NoError(t, err)
					recs = append(recs, c)
					time.Sleep(2 * time.Millisecond)
				}

				got, err := repo.List(ctx, Filter{Since: recs[1].CreatedAt, Limit: 50})
				require.NoError(t, err)
				assert.Equal(t, []uint{recs[2].ID, recs[1].ID}, recordIDs(got))

				got, err = repo.List(ctx, Filter{Until: recs[1].CreatedAt, Limit: 50})
				require.NoError(t, err)
				assert.Equal(t, []uint{recs[0].ID}, recordIDs(got))

				got, err = repo.List(ctx, Filter{Since: recs[0].CreatedAt, Until: recs[2].CreatedAt, Limit: 50})
				require.NoError(t, err)
				assert.Equal(t, []uint{recs[1].ID, recs[0].ID}, recordIDs(got))
			})

			t.Run("list searches operands and result", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				byNumber1, err := repo.Insert(ctx, record(7.5, 1, 1, calculation.OpMultiply))
				require.NoError(t, err)
				byResult, err := repo.Insert(ctx, record(5, 2, 0.5, calculation.OpAdd))
				require.NoError(t, err)
				_, err = repo.Insert(ctx, record(1, 2, 3, calculation.OpAdd))
				require.NoError(t, err)

				n := 7.5
				got, err := repo.List(ctx, Filter{Number: &n, Limit: 50})
				require.NoError(t, err)
				assert.Equal(t, []uint{byResult, byNumber1}, recordIDs(got))

				got, err = repo.List(ctx, Filter{Number: &n, Operator: calculation.OpAdd, Limit: 50})
				require.NoError(t, err)
				assert.Equal(t, []uint{byResult}, recordIDs(got))
			})

			t.Run("overflowed result round-trips", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				id, err := repo.Insert(ctx, record(1e200, 1e200, 10, calculation.OpMultiply))
				require.NoError(t, err)

				got, err := repo.Get(ctx, id)
				require.NoError(t, err)
				assert.True(t, math.IsInf(got.Result, 1), "got %g", got.Result)
			})

			t.Run("undefined result is rejected", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				c := calculation.New(calculation.Input{Number1: 1e200, Number2: 1e200, Number3: 0, Operator: calculation.OpMultiply}, math.NaN())
				_, err := repo.Insert(ctx, c)
				assert.ErrorIs(t, err, calculation.ErrUndefinedResult)

				got, err := repo.ListRecent(ctx, RecentLimit)
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("empty store lists nothing", func(t *testing.T) {
				repo := newRepo(t)

				got, err := repo.ListRecent(context.Background(), RecentLimit)
				require.NoError(t, err)
				assert.Empty(t, got)
			})
		})
	}
}

func TestMemoryStoreOrdersByCreationTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base.Add(time.Minute), base, base}
	i := 0

	repo := NewMemoryStore(WithClock(func() time.Time {
		ts := times[i]
		i++
		return ts
	}))
	ctx := context.Background()

	newest, _ := repo.Insert(ctx, record(1, 1, 1, calculation.OpAdd))
	olderA, _ := repo.Insert(ctx, record(2, 1, 1, calculation.OpAdd))
	olderB, _ := repo.Insert(ctx, record(3, 1, 1, calculation.OpAdd))

	got, err := repo.ListRecent(ctx, RecentLimit)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []uint{newest, olderB, olderA}, []uint{got[0].ID, got[1].ID, got[2].ID})
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	repo := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Insert(ctx, record(1, 1, 1, calculation.OpAdd))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSQLiteInMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	id, err := s.Insert(context.Background(), record(2, 3, 4, calculation.OpAdd))
	require.NoError(t, err)

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Result)
	assert.Equal(t, ":memory:", s.Path())
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLite("", zap.NewNop())
	assert.Error(t, err)
}
