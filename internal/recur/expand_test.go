package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetroom/internal/model"
)

func datetime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestExpand_None(t *testing.T) {
	start := datetime(2026, 6, 1, 10, 0)
	end := datetime(2026, 6, 1, 11, 0)

	occs, err := Expand(start, end, model.RecurrenceRule{Kind: model.RecurrenceNone})
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, start, occs[0].Start)
	assert.Equal(t, end, occs[0].End)
}

func TestExpand_Weekly(t *testing.T) {
	start := datetime(2026, 6, 1, 10, 0) // Monday
	end := datetime(2026, 6, 1, 11, 30)

	occs, err := Expand(start, end, model.RecurrenceRule{
		Kind:    model.RecurrenceWeekly,
		EndDate: datetime(2026, 6, 15, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.Equal(t, datetime(2026, 6, 1, 10, 0), occs[0].Start)
	assert.Equal(t, datetime(2026, 6, 8, 10, 0), occs[1].Start)
	assert.Equal(t, datetime(2026, 6, 15, 10, 0), occs[2].Start)
	for _, occ := range occs {
		assert.Equal(t, 90*time.Minute, occ.End.Sub(occ.Start))
	}
}

func TestExpand_MonthlyClampsShortMonths(t *testing.T) {
	start := datetime(2024, 1, 31, 10, 0)
	end := datetime(2024, 1, 31, 11, 0)

	occs, err := Expand(start, end, model.RecurrenceRule{
		Kind:    model.RecurrenceMonthly,
		EndDate: datetime(2024, 3, 31, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.Equal(t, datetime(2024, 1, 31, 10, 0), occs[0].Start)
	assert.Equal(t, datetime(2024, 2, 29, 10, 0), occs[1].Start) // leap year clamp
	assert.Equal(t, datetime(2024, 3, 31, 10, 0), occs[2].Start)
	for _, occ := range occs {
		assert.Equal(t, time.Hour, occ.End.Sub(occ.Start))
	}
}

func TestExpand_MonthlyNonLeapFebruary(t *testing.T) {
	start := datetime(2026, 1, 31, 9, 0)
	end := datetime(2026, 1, 31, 10, 0)

	occs, err := Expand(start, end, model.RecurrenceRule{
		Kind:    model.RecurrenceMonthly,
		EndDate: datetime(2026, 2, 28, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, occs, 2)
	assert.Equal(t, datetime(2026, 2, 28, 9, 0), occs[1].Start)
}

func TestExpand_EndDateBeforeBaseYieldsNothing(t *testing.T) {
	start := datetime(2026, 6, 10, 10, 0)
	end := datetime(2026, 6, 10, 11, 0)

	occs, err := Expand(start, end, model.RecurrenceRule{
		Kind:    model.RecurrenceWeekly,
		EndDate: datetime(2026, 6, 1, 0, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpand_EndDateOnBaseDateYieldsBaseOnly(t *testing.T) {
	start := datetime(2026, 6, 10, 10, 0)
	end := datetime(2026, 6, 10, 11, 0)

	occs, err := Expand(start, end, model.RecurrenceRule{
		Kind:    model.RecurrenceWeekly,
		EndDate: datetime(2026, 6, 10, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, start, occs[0].Start)
}

func TestExpand_InvalidDuration(t *testing.T) {
	start := datetime(2026, 6, 1, 11, 0)
	end := datetime(2026, 6, 1, 10, 0)

	_, err := Expand(start, end, model.RecurrenceRule{Kind: model.RecurrenceNone})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestExpand_MissingEndDate(t *testing.T) {
	start := datetime(2026, 6, 1, 10, 0)
	end := datetime(2026, 6, 1, 11, 0)

	_, err := Expand(start, end, model.RecurrenceRule{Kind: model.RecurrenceWeekly})
	assert.Error(t, err)
}
