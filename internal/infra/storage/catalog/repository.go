package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий каталога услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий каталога услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindByIDs возвращает услуги бизнеса по списку ID.
// Неизвестные ID молча опускаются — это контракт движка слотов:
// запрошенная, но не существующая услуга не ошибка, она просто
// выпадает из расчёта.
func (r *Repository) FindByIDs(ctx context.Context, businessID int64, ids []int64) ([]domain.CatalogService, error) {
	if len(ids) == 0 {
		return []domain.CatalogService{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"category",
		"duration_minutes",
	).
		From("services").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.CatalogService, 0, len(ids))
	for rows.Next() {
		var s domain.CatalogService
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.Category, &s.DurationMinutes); err != nil {
			return nil, fmt.Errorf("%w: FindByIDs - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}
