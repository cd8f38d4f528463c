package recheck_conflicts

import (
	"context"

	detectConflicts "github.com/m04kA/SMC-ScheduleService/internal/usecase/detect_conflicts"
)

type DetectConflictsUseCase interface {
	Execute(ctx context.Context, req *detectConflicts.Request) (*detectConflicts.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
