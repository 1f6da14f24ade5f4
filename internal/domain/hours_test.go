package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primapp/prim-booking-service/pkg/types"
)

func ts(s string) *types.TimeString {
	t := types.TimeString(s)
	return &t
}

func TestDayHours_Validate(t *testing.T) {
	tests := []struct {
		name    string
		day     DayHours
		wantErr error
	}{
		{
			name: "closed day is always valid",
			day:  DayHours{IsOpen: false},
		},
		{
			name: "regular day",
			day:  DayHours{IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00")},
		},
		{
			name: "day with break",
			day: DayHours{
				IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00"),
				BreakStart: ts("12:00"), BreakEnd: ts("13:00"),
			},
		},
		{
			name:    "open day without times",
			day:     DayHours{IsOpen: true},
			wantErr: ErrIncompleteHours,
		},
		{
			name:    "overnight hours rejected",
			day:     DayHours{IsOpen: true, OpenTime: ts("22:00"), CloseTime: ts("02:00")},
			wantErr: ErrOvernightHours,
		},
		{
			name:    "zero-length day rejected",
			day:     DayHours{IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("09:00")},
			wantErr: ErrOvernightHours,
		},
		{
			name: "break outside hours",
			day: DayHours{
				IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00"),
				BreakStart: ts("08:00"), BreakEnd: ts("10:00"),
			},
			wantErr: ErrInvalidBreak,
		},
		{
			name: "half-specified break",
			day: DayHours{
				IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00"),
				BreakStart: ts("12:00"),
			},
			wantErr: ErrInvalidBreak,
		},
		{
			name: "inverted break",
			day: DayHours{
				IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00"),
				BreakStart: ts("13:00"), BreakEnd: ts("12:00"),
			},
			wantErr: ErrInvalidBreak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.day.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDayHours_OpenIntervals(t *testing.T) {
	t.Run("closed day has no intervals", func(t *testing.T) {
		intervals, err := DayHours{IsOpen: false}.OpenIntervals()
		require.NoError(t, err)
		assert.Empty(t, intervals)
	})

	t.Run("day without break is a single interval", func(t *testing.T) {
		day := DayHours{IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00")}

		intervals, err := day.OpenIntervals()
		require.NoError(t, err)
		require.Len(t, intervals, 1)
		assert.Equal(t, types.TimeString("09:00"), intervals[0].Start)
		assert.Equal(t, types.TimeString("17:00"), intervals[0].End)
	})

	t.Run("break splits the day in two", func(t *testing.T) {
		day := DayHours{
			IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00"),
			BreakStart: ts("12:00"), BreakEnd: ts("13:00"),
		}

		intervals, err := day.OpenIntervals()
		require.NoError(t, err)
		require.Len(t, intervals, 2)
		assert.Equal(t, types.TimeString("09:00"), intervals[0].Start)
		assert.Equal(t, types.TimeString("12:00"), intervals[0].End)
		assert.Equal(t, types.TimeString("13:00"), intervals[1].Start)
		assert.Equal(t, types.TimeString("17:00"), intervals[1].End)
	})

	t.Run("break adjacent to opening drops leading interval", func(t *testing.T) {
		day := DayHours{
			IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00"),
			BreakStart: ts("09:00"), BreakEnd: ts("10:00"),
		}

		intervals, err := day.OpenIntervals()
		require.NoError(t, err)
		require.Len(t, intervals, 1)
		assert.Equal(t, types.TimeString("10:00"), intervals[0].Start)
		assert.Equal(t, types.TimeString("17:00"), intervals[0].End)
	})
}

func TestWeeklyHours_ForWeekday(t *testing.T) {
	var hours WeeklyHours
	monday := DayHours{IsOpen: true, OpenTime: ts("10:00"), CloseTime: ts("18:00")}

	hours.SetForWeekday(time.Monday, monday)

	assert.Equal(t, monday, hours.ForWeekday(time.Monday))
	assert.False(t, hours.ForWeekday(time.Sunday).IsOpen)
}
