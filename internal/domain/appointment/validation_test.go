package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayToSaturday(date time.Time) (EffectiveHours, bool, error) {
	if date.Weekday() == time.Sunday {
		return EffectiveHours{}, false, nil
	}
	return EffectiveHours{Start: 9 * 60, End: 17 * 60, Source: LayerProvider}, true, nil
}

func TestCheckCandidate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		time     string
		duration int
		want     Reason
	}{
		{"ok", "2025-01-07", "10:00", 60, ReasonOK},
		{"last fitting slot", "2025-01-07", "16:00", 60, ReasonOK},
		{"bad date", "07/01/2025", "10:00", 60, ReasonInvalidFormat},
		{"bad time", "2025-01-07", "25:00", 60, ReasonInvalidFormat},
		{"garbage time", "2025-01-07", "ten", 60, ReasonInvalidFormat},
		{"yesterday", "2025-01-05", "10:00", 60, ReasonPastDate},
		{"earlier today", "2025-01-06", "11:30", 30, ReasonPastTime},
		{"sunday", "2025-01-12", "10:00", 60, ReasonClosedDay},
		{"before opening", "2025-01-07", "08:30", 30, ReasonOutsideHours},
		{"at closing", "2025-01-07", "17:00", 30, ReasonOutsideHours},
		{"runs past closing", "2025-01-07", "16:30", 60, ReasonExceedsClosing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, res, err := CheckCandidate(CandidateParams{
				Date:            tt.date,
				Time:            tt.time,
				DurationMinutes: tt.duration,
				Now:             now,
				Hours:           mondayToSaturday,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Reason)
			assert.Equal(t, tt.want == ReasonOK, res.OK)
			if res.OK {
				assert.Equal(t, tt.date, slot.DateString())
				assert.Equal(t, tt.time, slot.TimeString())
			}
		})
	}
}

func TestCheckCandidate_PastDateBeforeClosedDay(t *testing.T) {
	// 2025-01-05 is a Sunday and in the past; the first failing rule wins.
	_, res, err := CheckCandidate(CandidateParams{
		Date: "2025-01-05", Time: "10:00", DurationMinutes: 30, Now: now, Hours: mondayToSaturday,
	})
	require.NoError(t, err)
	assert.Equal(t, ReasonPastDate, res.Reason)
}

func TestCheckCandidate_StoreError(t *testing.T) {
	boom := errors.New("db down")
	_, _, err := CheckCandidate(CandidateParams{
		Date: "2025-01-07", Time: "10:00", DurationMinutes: 30, Now: now,
		Hours: func(time.Time) (EffectiveHours, bool, error) { return EffectiveHours{}, false, boom },
	})
	assert.ErrorIs(t, err, boom)
}

func TestReasonMessage(t *testing.T) {
	assert.Equal(t, "Time slot already booked", ReasonSlotTaken.Message())
	assert.Equal(t, "mystery", Reason("mystery").Message())
}
