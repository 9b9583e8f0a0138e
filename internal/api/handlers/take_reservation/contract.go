package take_reservation

import (
	"context"

	takeReservation "github.com/FihlaTV/timegrid/internal/usecase/take_reservation"
)

type TakeReservationUseCase interface {
	Execute(ctx context.Context, req takeReservation.Request) (*takeReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
