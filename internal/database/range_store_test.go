package database

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/opening-hours/internal/openinghours"
	appSignals "github.com/belphemur/opening-hours/internal/signals"
)

func mustSelector(t *testing.T, selector string) []*openinghours.WeekDayRange {
	t.Helper()
	ranges, err := openinghours.ParseSelector(selector)
	require.NoError(t, err)
	return ranges
}

func newTestRangeStore(t *testing.T) *RangeStore {
	t.Helper()
	store, err := NewRangeStore(newTestDB(t))
	require.NoError(t, err)
	return store
}

func TestRangeStore_SaveAndList(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	inserted, err := store.Save(ctx, "shop", mustSelector(t, "Mo-Fr,Sa[1,3],Su[-1]"))
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	ranges, err := store.List(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "Mo-Fr,Sa[1,3],Su[-1]", openinghours.FormatSelector(ranges))

	assert.Equal(t, openinghours.Saturday, ranges[1].StartDay())
	assert.False(t, ranges[1].HasEndDay())
	assert.Equal(t, []openinghours.Nth{{Start: 1}, {Start: 3}}, ranges[1].Nths())
	assert.Empty(t, ranges[0].Nths())
}

func TestRangeStore_SaveSkipsDuplicates(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	inserted, err := store.Save(ctx, "shop", mustSelector(t, "Mo-Fr,Sa,Mo-Fr"))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted, "duplicate inside one call is skipped")

	inserted, err = store.Save(ctx, "shop", mustSelector(t, "Sa,Su,Mo-Fr"))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted, "only Su is new")

	ranges, err := store.List(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "Mo-Fr,Sa,Su", openinghours.FormatSelector(ranges), "new ranges are appended")

	assert.Equal(t, StoreStats{Inserted: 3, Duplicates: 3}, store.Stats())
}

func TestRangeStore_NthOrderIsSignificant(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	inserted, err := store.Save(ctx, "market", mustSelector(t, "Sa[1,3],Sa[3,1]"))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
}

func TestRangeStore_EndDayWithNths(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	plain := &openinghours.WeekDayRange{}
	plain.SetStartDay(openinghours.Monday)
	plain.SetEndDay(openinghours.Friday)

	qualified := plain.Clone()
	qualified.SetNths([]openinghours.Nth{{Start: 2}})
	require.Equal(t, plain.String(), qualified.String(), "end day hides the nths")

	// Same text, different ranges
	inserted, err := store.Save(ctx, "shop", []*openinghours.WeekDayRange{plain, qualified})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	ranges, err := store.List(ctx, "shop")
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.True(t, ranges[0].Equal(plain))
	assert.True(t, ranges[1].Equal(qualified))
}

func TestRangeStore_SaveRejectsInvalidInput(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, "", mustSelector(t, "Mo"))
	assert.ErrorIs(t, err, ErrEmptyRuleName)

	_, err = store.Save(ctx, "shop", []*openinghours.WeekDayRange{nil})
	assert.ErrorIs(t, err, openinghours.ErrInvalidWeekDay)

	_, err = store.Save(ctx, "shop", []*openinghours.WeekDayRange{{}})
	assert.ErrorIs(t, err, openinghours.ErrInvalidWeekDay)

	outOfRange := &openinghours.WeekDayRange{}
	outOfRange.SetStartDay(openinghours.Saturday)
	outOfRange.SetNths([]openinghours.Nth{{Start: 9}})
	_, err = store.Save(ctx, "shop", []*openinghours.WeekDayRange{outOfRange})
	assert.ErrorIs(t, err, openinghours.ErrInvalidNth)

	negativeSpan := outOfRange.Clone()
	negativeSpan.SetNths([]openinghours.Nth{{Start: -1, End: 2}})
	_, err = store.Save(ctx, "shop", append(mustSelector(t, "Mo-Fr"), negativeSpan))
	assert.ErrorIs(t, err, openinghours.ErrInvalidNth, "one bad range rejects the whole call")

	badEnd := &openinghours.WeekDayRange{}
	badEnd.SetStartDay(openinghours.Monday)
	badEnd.SetEndDay(openinghours.WeekDay(9))
	_, err = store.Save(ctx, "shop", []*openinghours.WeekDayRange{badEnd})
	assert.ErrorIs(t, err, openinghours.ErrInvalidWeekDay)

	rules, err := store.Rules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules, "nothing is written on invalid input")

	var rows int
	require.NoError(t, store.db.conn.QueryRow("SELECT COUNT(*) FROM weekday_ranges").Scan(&rows))
	assert.Zero(t, rows)
	assert.Equal(t, StoreStats{}, store.Stats())

	// The rule stays readable and writable afterwards
	inserted, err := store.Save(ctx, "shop", mustSelector(t, "Sa[1,3]"))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	ranges, err := store.List(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "Sa[1,3]", openinghours.FormatSelector(ranges))
}

func TestNewRangeStore_NilDatabase(t *testing.T) {
	store, err := NewRangeStore(nil)
	assert.ErrorIs(t, err, ErrNilDatabase)
	assert.Nil(t, store)
}

func TestRangeStore_RulesAndDelete(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, "shop", mustSelector(t, "Mo-Fr"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "market", mustSelector(t, "Sa"))
	require.NoError(t, err)

	rules, err := store.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"market", "shop"}, rules)

	deleted, err := store.Delete(ctx, "shop")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "shop")
	require.NoError(t, err)
	assert.False(t, deleted)

	ranges, err := store.List(ctx, "shop")
	require.NoError(t, err)
	assert.Empty(t, ranges)

	var orphans int
	require.NoError(t, store.db.conn.QueryRow("SELECT COUNT(*) FROM weekday_ranges WHERE rule_id NOT IN (SELECT id FROM rules)").Scan(&orphans))
	assert.Zero(t, orphans, "ranges are removed with their rule")
}

func TestRangeStore_ListUnknownRule(t *testing.T) {
	store := newTestRangeStore(t)

	ranges, err := store.List(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestRangeStore_EmitsRangeStored(t *testing.T) {
	store := newTestRangeStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	var received []appSignals.RangeStoredData
	appSignals.OnRangeStored(func(ctx context.Context, data appSignals.RangeStoredData) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, data)
	}, "range-store-test")
	defer appSignals.RemoveRangeStoredListener("range-store-test")

	_, err := store.Save(ctx, "shop", mustSelector(t, "Mo-Fr,Sa[1,3]"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "shop", mustSelector(t, "Mo-Fr"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []appSignals.RangeStoredData{
		{Rule: "shop", Canonical: "Mo-Fr", Position: 0},
		{Rule: "shop", Canonical: "Sa[1,3]", Position: 1},
	}, received, "duplicates are not announced")
}
