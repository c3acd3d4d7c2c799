package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionsRequireUnlockedVault(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Resolutions()
	require.ErrorIs(t, err, ErrVaultLocked)

	f.unlock(t)
	_, err = f.svc.Resolutions()
	require.NoError(t, err)

	f.svc.Session().Lock()
	_, err = f.svc.Resolutions()
	require.ErrorIs(t, err, ErrVaultLocked)
}

func TestAddResolutionDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.unlock(t)

	got, err := r.Add(ctx, AddResolutionInput{Title: "Read 20 books"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, DefaultResolutionCategory, got.Category)
	assert.Equal(t, float64(DefaultResolutionTarget), got.Target)
	assert.Zero(t, got.Current)
	assert.Equal(t, "%", got.Unit)
	assert.False(t, got.IsCompleted())

	none, err := r.Add(ctx, AddResolutionInput{Title: ""})
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = r.Add(ctx, AddResolutionInput{Title: "x", Target: -3})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target", verr.Field)

	second, err := r.Add(ctx, AddResolutionInput{Title: "Save", Category: ResolutionFinance, Target: 5000, Unit: "USD"})
	require.NoError(t, err)
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[1].ID, "appended at the end")
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.unlock(t)

	res, err := r.Add(ctx, AddResolutionInput{Title: "Run", Target: 12, Unit: "km"})
	require.NoError(t, err)

	got, err := r.MarkComplete(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Target, got.Current)
	assert.True(t, got.IsCompleted())

	again, err := r.MarkComplete(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = r.MarkComplete(ctx, "missing")
	assert.ErrorIs(t, err, ErrResolutionNotFound)
}

func TestIncrementClampsAtTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.unlock(t)

	res, err := r.Add(ctx, AddResolutionInput{Title: "Push-ups", Target: 2, Unit: "sets"})
	require.NoError(t, err)

	for i, want := range []float64{1, 2, 2, 2} {
		got, err := r.Increment(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Current, "increment #%d", i+1)
		assert.LessOrEqual(t, got.Current, got.Target)
	}

	_, err = r.Increment(ctx, "missing")
	assert.ErrorIs(t, err, ErrResolutionNotFound)
}

func TestDeleteResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.unlock(t)

	res, err := r.Add(ctx, AddResolutionInput{Title: "Learn Go"})
	require.NoError(t, err)

	ok, err := r.Delete(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Delete(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, r.All())
}

func TestPaginateResolutions(t *testing.T) {
	var list []Resolution
	for i := 1; i <= 12; i++ {
		list = append(list, Resolution{ID: fmt.Sprint(i), Title: fmt.Sprintf("Goal %02d", i), Target: 1})
	}

	p := PaginateResolutions(list, "", 5, 3)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 12, p.TotalItems)
	assert.Equal(t, "11", p.Items[0].ID)

	p = PaginateResolutions(list, "", 5, 1)
	assert.Len(t, p.Items, 5)

	p = PaginateResolutions(list, "", 5, 9)
	assert.Empty(t, p.Items)

	p = PaginateResolutions(list, "goal 1", 5, 1)
	assert.Equal(t, 3, p.TotalItems, "Goal 10, 11, 12")
	assert.Equal(t, 1, p.TotalPages)

	p = PaginateResolutions(nil, "", 0, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 1, p.Page)
}

func TestSummarizeResolutions(t *testing.T) {
	assert.Equal(t, ResolutionStats{}, SummarizeResolutions(nil))

	list := []Resolution{
		{Target: 10, Current: 10},
		{Target: 4, Current: 1},
		{Target: 5, Current: 9}, // over target counts as 100%
	}
	st := SummarizeResolutions(list)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Sealed)
	assert.Equal(t, 75, st.OverallProgress)
}

func TestResolutionsRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.unlock(t)

	for _, title := range []string{"one", "two", "three"} {
		_, err := r.Add(ctx, AddResolutionInput{Title: title, Category: ResolutionCoding, Target: 3})
		require.NoError(t, err)
	}
	_, err := r.Increment(ctx, r.All()[1].ID)
	require.NoError(t, err)

	again := f.reopen(t)
	assert.Equal(t, r.All(), again.resolutions.All())
}

func TestLoadMapsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.kv.Set(ctx, KeyResolutions, `[{"id":"r1","title":"Ship app","category":"Work","target":0,"current":-2,"unit":""}]`))

	svc := f.reopen(t)
	got := svc.resolutions.All()
	require.Len(t, got, 1)
	assert.Equal(t, ResolutionPersonal, got[0].Category)
	assert.Equal(t, float64(DefaultResolutionTarget), got[0].Target)
	assert.Zero(t, got[0].Current)
	assert.Equal(t, "%", got[0].Unit)
}
