package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписания: бизнесы, рабочие часы и ростеры
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// BusinessExists проверяет существование бизнеса по ID
func (r *Repository) BusinessExists(ctx context.Context, businessID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("businesses").
		Where(squirrel.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: BusinessExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: BusinessExists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

// GetBusinessIDBySlug возвращает ID бизнеса по его slug
func (r *Repository) GetBusinessIDBySlug(ctx context.Context, slug string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("businesses").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetBusinessIDBySlug - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBusinessNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetBusinessIDBySlug - scan: %v", ErrScanRow, err)
	}
	return id, nil
}

// GetOperatingHours возвращает все строки таблицы рабочих часов бизнеса
func (r *Repository) GetOperatingHours(ctx context.Context, businessID int64) ([]domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"day_of_week",
		"category",
		"open_time",
		"close_time",
		"is_closed",
	).
		From("operating_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC, category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.OperatingHours, 0)
	for rows.Next() {
		var h domain.OperatingHours
		if err := rows.Scan(
			&h.BusinessID,
			&h.DayOfWeek,
			&h.Category,
			&h.OpenTime,
			&h.CloseTime,
			&h.IsClosed,
		); err != nil {
			return nil, fmt.Errorf("%w: GetOperatingHours - scan row: %v", ErrScanRow, err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// GetEmployees возвращает ростер сотрудников со специализациями
func (r *Repository) GetEmployees(ctx context.Context, businessID int64) ([]domain.Provider, error) {
	return r.getProviders(ctx, "employees", businessID)
}

// GetOwners возвращает ростер владельцев со специализациями
func (r *Repository) GetOwners(ctx context.Context, businessID int64) ([]domain.Provider, error) {
	return r.getProviders(ctx, "owners", businessID)
}

func (r *Repository) getProviders(ctx context.Context, table string, businessID int64) ([]domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"specialties",
	).
		From(table).
		Where(squirrel.Eq{"business_id": businessID, "is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getProviders(%s) - build select query: %v", ErrBuildQuery, table, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getProviders(%s) - execute query: %v", ErrExecQuery, table, err)
	}
	defer rows.Close()

	providers := make([]domain.Provider, 0)
	for rows.Next() {
		var p domain.Provider
		var specialties pq.StringArray
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &specialties); err != nil {
			return nil, fmt.Errorf("%w: getProviders(%s) - scan row: %v", ErrScanRow, table, err)
		}
		p.Specialties = []string(specialties)
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getProviders(%s) - rows error: %v", ErrScanRow, table, err)
	}

	return providers, nil
}
