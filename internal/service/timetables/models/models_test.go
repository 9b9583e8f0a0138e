package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FihlaTV/timegrid/internal/domain"
)

func validRequest() *UpdateTimetableRequest {
	return &UpdateTimetableRequest{
		UserID:     1,
		BusinessID: 1,
		Weekly: map[string][]WindowModel{
			"monday":   {{Start: "09:00", End: "13:00"}, {Start: "14:00", End: "18:00"}},
			"Saturday": {{Start: "10:00", End: "24:00"}},
		},
		SlotGranularityMinutes: 30,
		FutureDaysLimit:        30,
		SameDayAllowed:         true,
		Timezone:               "Europe/Madrid",
	}
}

func TestToDomainTimetable(t *testing.T) {
	tt, err := validRequest().ToDomainTimetable()
	require.NoError(t, err)

	assert.Equal(t, int64(1), tt.BusinessID)
	assert.Len(t, tt.Weekly[time.Monday], 2)

	// Имена дней недели нечувствительны к регистру
	require.Len(t, tt.Weekly[time.Saturday], 1)
	assert.Equal(t, "24:00", tt.Weekly[time.Saturday][0].End.String())

	// Отсутствующий день - выходной
	assert.Empty(t, tt.Weekly[time.Sunday])
}

func TestToDomainTimetable_UnpaddedTimes(t *testing.T) {
	req := validRequest()
	req.Weekly["friday"] = []WindowModel{{Start: "9:00", End: "17:00"}}

	tt, err := req.ToDomainTimetable()
	require.NoError(t, err)

	// "9:00" принимается и нормализуется к "09:00"
	require.Len(t, tt.Weekly[time.Friday], 1)
	assert.Equal(t, "09:00", tt.Weekly[time.Friday][0].Start.String())
	assert.Equal(t, "17:00", tt.Weekly[time.Friday][0].End.String())
}

func TestToDomainTimetable_MalformedTime(t *testing.T) {
	req := validRequest()
	req.Weekly["friday"] = []WindowModel{{Start: "nine", End: "17:00"}}

	_, err := req.ToDomainTimetable()
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestToDomainTimetable_UnknownWeekday(t *testing.T) {
	req := validRequest()
	req.Weekly["someday"] = []WindowModel{{Start: "09:00", End: "18:00"}}

	_, err := req.ToDomainTimetable()
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestToDomainTimetable_InvalidConfig(t *testing.T) {
	req := validRequest()
	req.SlotGranularityMinutes = 0

	_, err := req.ToDomainTimetable()
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestFromDomainTimetable_RoundTrip(t *testing.T) {
	tt, err := validRequest().ToDomainTimetable()
	require.NoError(t, err)

	resp := FromDomainTimetable(tt)

	assert.Equal(t, int64(1), resp.BusinessID)
	assert.Equal(t, "Europe/Madrid", resp.Timezone)
	require.Len(t, resp.Weekly["monday"], 2)
	assert.Equal(t, "09:00", resp.Weekly["monday"][0].Start)
	assert.NotContains(t, resp.Weekly, "sunday")
}
