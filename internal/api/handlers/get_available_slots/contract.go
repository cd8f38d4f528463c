package get_available_slots

import (
	"context"

	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
)

type ComputeSlotsUseCase interface {
	Execute(ctx context.Context, req *computeSlots.Request) (*computeSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
