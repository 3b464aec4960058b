package schedule

import (
	"errors"
	"testing"

	"github.com/scheinerik/schedule/internal/test_utils"
	"github.com/scheinerik/schedule/pkg/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteRepository(t *testing.T) {
	runRepositoryTests(t, func(t *testing.T) Repository {
		return NewSqliteRepository(test_utils.SetupTestDB(t))
	})
}

func TestPostgresRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}
	pool := test_utils.TestWithPostgres(t)
	runRepositoryTests(t, func(t *testing.T) Repository {
		_, err := pool.Exec(ctx, "TRUNCATE events RESTART IDENTITY")
		require.NoError(t, err)
		return NewPostgresRepository(pool)
	})
}

func runRepositoryTests(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("stores and lists events in id order", func(t *testing.T) {
		// given
		repo := newRepo(t)
		first, err := repo.StoreEvent(ctx, Event{Year: 2025, Month: 9, Day: 1, Start: "09:00", End: "12:00", Title: "Deep work"})
		require.NoError(t, err)
		second, err := repo.StoreEvent(ctx, Event{Year: 2025, Month: 9, Day: 2, Start: "13:00", End: "14:00", Title: "Gym",
			Repeat: recurrence.Weekly, RepeatGroup: "g-1"})
		require.NoError(t, err)

		// when
		events, err := repo.ListEvents(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Less(t, first.Id, second.Id)
		assert.Equal(t, first, events[0])
		assert.Equal(t, second, events[1])
		assert.Empty(t, events[0].RepeatGroup)
		assert.Equal(t, recurrence.Weekly, events[1].Repeat)
		assert.Equal(t, "g-1", events[1].RepeatGroup)
	})

	t.Run("returns an empty list when nothing is stored", func(t *testing.T) {
		repo := newRepo(t)

		events, err := repo.ListEvents(ctx)

		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("updates start, end and title only", func(t *testing.T) {
		// given
		repo := newRepo(t)
		stored, err := repo.StoreEvent(ctx, Event{Year: 2025, Month: 9, Day: 1, Start: "09:00", End: "10:00", Title: "Old"})
		require.NoError(t, err)

		// when
		updated, err := repo.UpdateEvent(ctx, stored.Id, "11:00", "12:30", "New")
		missing, missingErr := repo.UpdateEvent(ctx, stored.Id+100, "11:00", "12:30", "New")

		// then
		require.NoError(t, err)
		require.NoError(t, missingErr)
		assert.True(t, updated)
		assert.False(t, missing)
		events, err := repo.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, Event{Id: stored.Id, Year: 2025, Month: 9, Day: 1, Start: "11:00", End: "12:30", Title: "New"}, events[0])
	})

	t.Run("deletes by id and by group", func(t *testing.T) {
		// given
		repo := newRepo(t)
		keep, _ := repo.StoreEvent(ctx, Event{Year: 2025, Month: 0, Day: 1, Start: "08:00", End: "09:00", Title: "keep"})
		drop, _ := repo.StoreEvent(ctx, Event{Year: 2025, Month: 0, Day: 1, Start: "09:00", End: "10:00", Title: "drop"})
		_, _ = repo.StoreEvent(ctx, Event{Year: 2025, Month: 0, Day: 2, Start: "09:00", End: "10:00", RepeatGroup: "g-2"})
		_, _ = repo.StoreEvent(ctx, Event{Year: 2025, Month: 0, Day: 3, Start: "09:00", End: "10:00", RepeatGroup: "g-2"})

		// when
		deleted, err := repo.DeleteEvent(ctx, drop.Id)
		require.NoError(t, err)
		groupDeleted, err := repo.DeleteRepeatGroup(ctx, "g-2")
		require.NoError(t, err)

		// then
		assert.True(t, deleted)
		assert.Equal(t, 2, groupDeleted)
		events, err := repo.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, keep.Id, events[0].Id)
	})

	t.Run("rolls back a failed transaction", func(t *testing.T) {
		// given
		repo := newRepo(t)
		failure := errors.New("fail after first insert")

		// when
		err := repo.WithTransaction(ctx, func(tx Repository) error {
			if _, err := tx.StoreEvent(ctx, Event{Year: 2025, Month: 0, Day: 1, Start: "08:00", End: "09:00"}); err != nil {
				return err
			}
			return failure
		})

		// then
		assert.ErrorIs(t, err, failure)
		events, err := repo.ListEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("commits a successful transaction", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.WithTransaction(ctx, func(tx Repository) error {
			for day := 1; day <= 3; day++ {
				if _, err := tx.StoreEvent(ctx, Event{Year: 2025, Month: 0, Day: day, Start: "08:00", End: "09:00"}); err != nil {
					return err
				}
			}
			return nil
		})

		require.NoError(t, err)
		events, err := repo.ListEvents(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})
}
