package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WindowModel рабочее окно в пределах дня
type WindowModel struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00", "24:00" - конец суток
}

// UpdateTimetableRequest запрос на обновление расписания бизнеса
// Отсутствующий в Weekly день недели означает выходной
type UpdateTimetableRequest struct {
	UserID                 int64                    `json:"userId"`
	BusinessID             int64                    `json:"businessId"`
	Weekly                 map[string][]WindowModel `json:"weekly"`
	SlotGranularityMinutes int                      `json:"slotGranularityMinutes"`
	FutureDaysLimit        int                      `json:"futureDaysLimit"`
	SameDayAllowed         bool                     `json:"sameDayAllowed"`
	MinNoticeMinutes       int                      `json:"minNoticeMinutes"`
	Timezone               string                   `json:"timezone"`
}

// ToDomainTimetable конвертирует request в доменную модель с валидацией
func (r *UpdateTimetableRequest) ToDomainTimetable() (*domain.Timetable, error) {
	weekly := make(map[time.Weekday][]domain.TimeWindow, len(r.Weekly))
	for name, windows := range r.Weekly {
		day, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, ErrInvalidWeekday
		}
		converted := make([]domain.TimeWindow, 0, len(windows))
		for _, w := range windows {
			// Времена приводятся к каноничному "HH:MM", чтобы "9:00" и "09:00"
			// вели себя одинаково
			start, err := types.NewTimeStringFromString(w.Start)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
			}
			end, err := types.NewTimeStringFromString(w.End)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
			}
			converted = append(converted, domain.TimeWindow{Start: start, End: end})
		}
		weekly[day] = converted
	}

	return domain.NewTimetable(
		r.BusinessID,
		weekly,
		r.SlotGranularityMinutes,
		r.FutureDaysLimit,
		r.SameDayAllowed,
		r.MinNoticeMinutes,
		r.Timezone,
	)
}

// TimetableResponse ответ с расписанием бизнеса
type TimetableResponse struct {
	BusinessID             int64                    `json:"businessId"`
	Weekly                 map[string][]WindowModel `json:"weekly"`
	SlotGranularityMinutes int                      `json:"slotGranularityMinutes"`
	FutureDaysLimit        int                      `json:"futureDaysLimit"`
	SameDayAllowed         bool                     `json:"sameDayAllowed"`
	MinNoticeMinutes       int                      `json:"minNoticeMinutes"`
	Timezone               string                   `json:"timezone"`
}

// FromDomainTimetable конвертирует доменную модель в response
func FromDomainTimetable(tt *domain.Timetable) *TimetableResponse {
	weekly := make(map[string][]WindowModel, len(tt.Weekly))
	for name, day := range weekdays {
		windows, ok := tt.Weekly[day]
		if !ok || len(windows) == 0 {
			continue
		}
		converted := make([]WindowModel, 0, len(windows))
		for _, w := range windows {
			converted = append(converted, WindowModel{
				Start: w.Start.String(),
				End:   w.End.String(),
			})
		}
		weekly[name] = converted
	}

	return &TimetableResponse{
		BusinessID:             tt.BusinessID,
		Weekly:                 weekly,
		SlotGranularityMinutes: tt.SlotGranularityMinutes,
		FutureDaysLimit:        tt.FutureDaysLimit,
		SameDayAllowed:         tt.SameDayAllowed,
		MinNoticeMinutes:       tt.MinNoticeMinutes,
		Timezone:               tt.Timezone,
	}
}
