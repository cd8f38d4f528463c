package bizcontext

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
)

// Service загрузчик контекста бизнеса: таблица рабочих часов и оба
// ростера (сотрудники и владельцы) одним снимком. Это прямая
// (транзакционная) реализация; кэширующий декоратор живет в
// internal/infra/cache/bizcontext и реализует тот же интерфейс —
// выбор между ними делает вызывающая сторона, не движок.
type Service struct {
	repo   ScheduleRepository
	logger Logger
}

// NewService создает загрузчик контекста бизнеса
func NewService(repo ScheduleRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Load возвращает контекст бизнеса по ID
func (s *Service) Load(ctx context.Context, businessID int64) (*domain.BusinessContext, error) {
	exists, err := s.repo.BusinessExists(ctx, businessID)
	if err != nil {
		s.logger.Error("Load: repository error for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Load - repository error: %v", ErrInternal, err)
	}
	if !exists {
		s.logger.Warn("Load: business id=%d not found", businessID)
		return nil, ErrBusinessNotFound
	}

	hours, err := s.repo.GetOperatingHours(ctx, businessID)
	if err != nil {
		s.logger.Error("Load: failed to get operating hours for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Load - operating hours: %v", ErrInternal, err)
	}

	employees, err := s.repo.GetEmployees(ctx, businessID)
	if err != nil {
		s.logger.Error("Load: failed to get employees for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Load - employees: %v", ErrInternal, err)
	}

	owners, err := s.repo.GetOwners(ctx, businessID)
	if err != nil {
		s.logger.Error("Load: failed to get owners for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Load - owners: %v", ErrInternal, err)
	}

	return &domain.BusinessContext{
		BusinessID: businessID,
		Hours:      hours,
		Employees:  employees,
		Owners:     owners,
	}, nil
}

// LoadBySlug возвращает контекст бизнеса по его slug
func (s *Service) LoadBySlug(ctx context.Context, slug string) (*domain.BusinessContext, error) {
	businessID, err := s.repo.GetBusinessIDBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessNotFound) {
			s.logger.Warn("LoadBySlug: business slug=%s not found", slug)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("LoadBySlug: repository error for slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: LoadBySlug - repository error: %v", ErrInternal, err)
	}
	return s.Load(ctx, businessID)
}
