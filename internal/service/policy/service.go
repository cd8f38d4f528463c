package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	policyRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/policy"
)

// Service резолвер политики бронирования бизнеса.
// Возвращает нормализованный снимок: все поля продефолчены и зажаты
// в допустимые границы. Политика перечитывается на каждый вызов —
// кэширование не предполагается.
type Service struct {
	repo   PolicyRepository
	logger Logger
}

// NewService создает резолвер политик
func NewService(repo PolicyRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve возвращает нормализованную политику бизнеса
func (s *Service) Resolve(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error) {
	p, err := s.repo.GetByBusinessID(ctx, businessID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Resolve: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Resolve: repository error for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	p.Normalize()
	return p, nil
}
