package eventform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTo24Hour_AllValidInputs(t *testing.T) {
	for hour := 1; hour <= 12; hour++ {
		am, err := To24Hour(hour, AM)
		require.NoError(t, err)
		pm, err := To24Hour(hour, PM)
		require.NoError(t, err)

		switch hour {
		case 12:
			assert.Equal(t, 0, am, "12 AM")
			assert.Equal(t, 12, pm, "12 PM")
		default:
			assert.Equal(t, hour, am)
			assert.Equal(t, hour+12, pm)
		}
	}
}

func TestTo24Hour_Rejects(t *testing.T) {
	_, err := To24Hour(0, AM)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = To24Hour(13, PM)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = To24Hour(5, Meridiem("XM"))
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestCombineDateTime(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	got, err := CombineDateTime("2026-11-03", "06:30", PM, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 3, 18, 30, 0, 0, loc), got)

	got, err = CombineDateTime("2026-11-03", "12:05", AM, loc)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 5, got.Minute())
}

func TestCombineDateTime_InvalidCalendarDate(t *testing.T) {
	_, err := CombineDateTime("2026-02-30", "10:00", AM, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = CombineDateTime("2026-02-10", "10:75", AM, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = CombineDateTime("2026-02-10", "1000", AM, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_ApplyDoesNotMutate(t *testing.T) {
	base := NewDraft()
	next := base.Apply(Change{Field: FieldTitle, Value: "Hack Night"})

	assert.Equal(t, "", base.Title)
	assert.Equal(t, "Hack Night", next.Title)
	assert.Equal(t, AM, next.Meridiem)

	next = next.Apply(Change{Field: FieldMeridiem, Value: "pm"})
	assert.Equal(t, PM, next.Meridiem)
}

func TestDraft_ResolveOtherOverrides(t *testing.T) {
	d := NewDraft().Reduce(
		Change{FieldTitle, "Robotics Expo"},
		Change{FieldCommunity, "Other"},
		Change{FieldCustomCommunity, "X"},
		Change{FieldType, "Other"},
		Change{FieldCustomType, "Expo"},
		Change{FieldDate, "2026-12-01"},
		Change{FieldTime, "10:00"},
	)

	resolved, err := d.Resolve(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "X", resolved.Community)
	assert.Equal(t, "Expo", resolved.Type)
	assert.Equal(t, time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC), resolved.Datetime)
}

func TestDraft_ResolveKeepsKnownSelections(t *testing.T) {
	d := NewDraft().Reduce(
		Change{FieldTitle, "Intro to ML"},
		Change{FieldCommunity, "CoreAI"},
		Change{FieldCustomCommunity, "ignored"},
		Change{FieldType, "Workshop"},
		Change{FieldDate, "2026-12-01"},
		Change{FieldTime, "3:15"},
		Change{FieldMeridiem, "PM"},
	)

	resolved, err := d.Resolve(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "CoreAI", resolved.Community)
	assert.Equal(t, "Workshop", resolved.Type)
	assert.Equal(t, 15, resolved.Datetime.Hour())
}

func TestDraft_ResolveIncomplete(t *testing.T) {
	d := NewDraft().Reduce(
		Change{FieldTitle, "No schedule"},
		Change{FieldCommunity, "IEEE"},
		Change{FieldType, "Seminar"},
	)
	_, err := d.Resolve(time.UTC)
	assert.ErrorIs(t, err, ErrIncompleteDraft)

	_, err = d.Apply(Change{FieldDate, "2026-12-01"}).Resolve(time.UTC)
	assert.ErrorIs(t, err, ErrIncompleteDraft)
}

func TestDraft_ResolveRequiresTitleAndSelections(t *testing.T) {
	complete := NewDraft().Reduce(
		Change{FieldTitle, "Talk"},
		Change{FieldCommunity, "NSS"},
		Change{FieldType, "Seminar"},
		Change{FieldDate, "2026-12-01"},
		Change{FieldTime, "09:00"},
	)

	_, err := complete.Apply(Change{FieldTitle, "  "}).Resolve(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = complete.Reduce(Change{FieldCommunity, "Other"}, Change{FieldCustomCommunity, ""}).Resolve(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = complete.Apply(Change{FieldType, ""}).Resolve(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}
