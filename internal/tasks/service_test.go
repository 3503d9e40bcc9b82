package tasks

import (
	"context"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft(proyecto string) Draft {
	return Draft{
		Proyecto:        proyecto,
		TipoTarea:       "Bug",
		PersonaAsignada: "Fernando Hirschfeld",
		StoryPoints:     3,
		Prioridad:       "Alta",
		FechaCreacion:   "2024-01-01",
		Resumen:         "Fix crash",
	}
}

func TestService_AddGeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		before := svc.Len()
		created, err := svc.Add(ctx, sampleDraft("p"+strconv.Itoa(i)))
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.False(t, seen[created.ID], "id %s reused", created.ID)
		seen[created.ID] = true
		assert.Equal(t, before+1, svc.Len())
	}
}

func TestService_AddRegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())

	ids := []string{"same", "same", "other"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := svc.Add(ctx, sampleDraft("a"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, sampleDraft("b"))
	require.NoError(t, err)

	assert.Equal(t, "same", first.ID)
	assert.Equal(t, "other", second.ID)
}

func TestService_AddInsertsAtFront(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())

	_, err := svc.Add(ctx, sampleDraft("first"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, sampleDraft("second"))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Proyecto)
	assert.Equal(t, "first", list[1].Proyecto)
}

func TestService_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())
	_, err := svc.Add(ctx, sampleDraft("a"))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	list[0].Proyecto = "mutated"

	again, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Proyecto)
}

func TestService_RemoveExisting(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())

	first, err := svc.Add(ctx, sampleDraft("first"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, sampleDraft("second"))
	require.NoError(t, err)
	third, err := svc.Add(ctx, sampleDraft("third"))
	require.NoError(t, err)

	deletedBefore := testutil.ToFloat64(tasksDeleted)

	ok, err := svc.Remove(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Task{third, first}, list)
	assert.Equal(t, deletedBefore+1, testutil.ToFloat64(tasksDeleted))
}

func TestService_RemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())
	created, err := svc.Add(ctx, sampleDraft("a"))
	require.NoError(t, err)

	ok, err := svc.Remove(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Task{created}, list)
}

func TestService_AddTwoDeleteFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(zerolog.Nop())

	first, err := svc.Add(ctx, sampleDraft("first"))
	require.NoError(t, err)
	second, err := svc.Add(ctx, sampleDraft("second"))
	require.NoError(t, err)

	_, err = svc.Remove(ctx, first.ID)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0])
	assert.Equal(t, sampleDraft("second"), list[0].Draft)
}

func TestService_CanceledContext(t *testing.T) {
	svc := NewService(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Add(ctx, sampleDraft("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, svc.Len())

	_, err = svc.Remove(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_CreatedCounter(t *testing.T) {
	svc := NewService(zerolog.Nop())
	before := testutil.ToFloat64(tasksCreated)

	_, err := svc.Add(context.Background(), sampleDraft("a"))
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(tasksCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(tasksInCollection))
}
