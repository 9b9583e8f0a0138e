package domain

import (
	"time"

	"github.com/FihlaTV/timegrid/pkg/types"
)

// AvailableSlot represents one discrete offerable time interval of a business day
type AvailableSlot struct {
	Date      time.Time // Дата слота (полночь в таймзоне бизнеса)
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}
