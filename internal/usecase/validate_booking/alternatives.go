package validate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	policySvc "github.com/m04kA/SMC-ScheduleService/internal/service/policy"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeutil"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// ListAlternatives возвращает альтернативные слоты для запрошенного
// времени без полной валидации: слоты того же дня не раньше запрошенного
// времени, затем последующие дни до конца горизонта
func (uc *UseCase) ListAlternatives(ctx context.Context, req *Request) ([]domain.Slot, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = uc.timeProvider.Now()
	}

	policy, err := uc.policyResolver.Resolve(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, policySvc.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	startMinute, err := types.TimeString(req.StartTime).MinutesOfDay()
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}
	requestedAt := timeutil.AtMinute(timeutil.DayStart(req.Date, uc.loc), startMinute, uc.loc)

	resp, err := uc.slotsEngine.Execute(ctx, &computeSlots.Request{
		BusinessID: req.BusinessID,
		Date:       req.Date,
		Services:   req.Services,
		Now:        now,
	})
	if err != nil {
		if errors.Is(err, computeSlots.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	return uc.collectAlternatives(ctx, req, now, policy, requestedAt, resp.Slots), nil
}

// listAlternatives собирает альтернативные слоты, когда запрошенный день
// не дал ни одного слота: перебираются последующие дни до конца горизонта
func (uc *UseCase) listAlternatives(ctx context.Context, req *Request, now time.Time, policy *domain.BusinessPolicy, requestedAt time.Time) []domain.Slot {
	return uc.collectAlternatives(ctx, req, now, policy, requestedAt, nil)
}

// alternativesFromDay собирает альтернативы, когда слоты на день есть, но
// запрошенное время занято: сначала слоты того же дня не раньше
// запрошенного времени, затем последующие дни
func (uc *UseCase) alternativesFromDay(ctx context.Context, req *Request, now time.Time, policy *domain.BusinessPolicy, requestedAt time.Time, daySlots []domain.Slot) []domain.Slot {
	return uc.collectAlternatives(ctx, req, now, policy, requestedAt, daySlots)
}

// collectAlternatives общая сборка альтернатив. Лучшее из усилий:
// ошибка движка на одном из дней прекращает сбор, но не роняет вызов
func (uc *UseCase) collectAlternatives(ctx context.Context, req *Request, now time.Time, policy *domain.BusinessPolicy, requestedAt time.Time, daySlots []domain.Slot) []domain.Slot {
	alternatives := make([]domain.Slot, 0, domain.MaxAlternativeSlots)

	for i := range daySlots {
		if len(alternatives) == domain.MaxAlternativeSlots {
			return alternatives
		}
		if daySlots[i].StartAt.Before(requestedAt) {
			continue
		}
		alternatives = append(alternatives, daySlots[i])
	}

	// При выключенном booking v2 будущие дни недоступны для брони,
	// предлагать их бессмысленно
	if !policy.BookingV2Enabled {
		return alternatives
	}

	offset := timeutil.DayOffset(now, req.Date, uc.loc)
	for dayOffset := offset + 1; dayOffset < policy.HorizonDays; dayOffset++ {
		if len(alternatives) == domain.MaxAlternativeSlots {
			break
		}

		resp, err := uc.slotsEngine.Execute(ctx, &computeSlots.Request{
			BusinessID: req.BusinessID,
			Date:       timeutil.DayStart(req.Date, uc.loc).AddDate(0, 0, dayOffset-offset),
			Services:   req.Services,
			Now:        now,
		})
		if err != nil {
			uc.logger.Warn("ValidateBooking: alternative scan stopped at offset %d: %v", dayOffset, err)
			break
		}

		for i := range resp.Slots {
			if len(alternatives) == domain.MaxAlternativeSlots {
				break
			}
			alternatives = append(alternatives, resp.Slots[i])
		}
	}

	return alternatives
}
