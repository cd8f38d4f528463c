package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий посещаемости сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий посещаемости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func presentStatusStrings() []string {
	return []string{
		string(domain.AttendancePresent),
		string(domain.AttendanceLate),
	}
}

// FindWindowsForDay возвращает окна присутствия сотрудников за
// календарный день [dayStart, dayEnd), сгруппированные по сотруднику.
// Учитываются только статусы «присутствует»/«опоздал» с заполненным
// clock_in; clock_out может быть NULL (сотрудник ещё не ушёл).
func (r *Repository) FindWindowsForDay(ctx context.Context, businessID int64, dayStart, dayEnd time.Time) (map[int64][]domain.AttendanceWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"employee_id",
		"clock_in",
		"clock_out",
	).
		From("attendance_records").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"status": presentStatusStrings()}).
		Where(squirrel.NotEq{"clock_in": nil}).
		Where(squirrel.GtOrEq{"clock_in": dayStart}).
		Where(squirrel.Lt{"clock_in": dayEnd}).
		OrderBy("employee_id ASC, clock_in ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindWindowsForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindWindowsForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make(map[int64][]domain.AttendanceWindow)
	for rows.Next() {
		var w domain.AttendanceWindow
		if err := rows.Scan(&w.EmployeeID, &w.ClockIn, &w.ClockOut); err != nil {
			return nil, fmt.Errorf("%w: FindWindowsForDay - scan row: %v", ErrScanRow, err)
		}
		windows[w.EmployeeID] = append(windows[w.EmployeeID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindWindowsForDay - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}
