package compute_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeutil"
)

// serviceUnit одна единица запрошенной услуги со всем, что нужно для
// её размещения: окна категории и квалифицированные исполнители
type serviceUnit struct {
	domain.ServiceUnit

	windows     []domain.TimeWindow
	openMinutes int
	employees   []domain.Provider
	owners      []domain.Provider
}

// attachWindows резолвит окна рабочих часов для категории каждой единицы.
// Возвращает false, если хотя бы одна категория не имеет открытых минут —
// в этом случае весь день небронируем
func (uc *UseCase) attachWindows(units []*serviceUnit, bctx *domain.BusinessContext, dayOfWeek int) (bool, error) {
	cache := make(map[string][]domain.TimeWindow)

	for _, u := range units {
		windows, ok := cache[u.Category]
		if !ok {
			var err error
			windows, err = domain.ResolveWindows(bctx.Hours, dayOfWeek, u.Category)
			if err != nil {
				return false, err
			}
			cache[u.Category] = windows
		}

		u.windows = windows
		u.openMinutes = domain.TotalOpenMinutes(windows)
		if u.openMinutes == 0 {
			return false, nil
		}
	}

	return true, nil
}

// sortUnitsForPacking сортирует единицы по (минуты открытия категории ASC,
// длительность DESC, serviceID ASC): самые стеснённые и длинные — первыми
func sortUnitsForPacking(units []*serviceUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].openMinutes != units[j].openMinutes {
			return units[i].openMinutes < units[j].openMinutes
		}
		if units[i].DurationMinutes != units[j].DurationMinutes {
			return units[i].DurationMinutes > units[j].DurationMinutes
		}
		return units[i].ServiceID < units[j].ServiceID
	})
}

// attachQualifiedProviders привязывает к каждой единице исполнителей,
// квалифицированных для её категории (пустой список специализаций =
// любая категория)
func attachQualifiedProviders(units []*serviceUnit, bctx *domain.BusinessContext) {
	empCache := make(map[string][]domain.Provider)
	ownCache := make(map[string][]domain.Provider)

	for _, u := range units {
		if _, ok := empCache[u.Category]; !ok {
			empCache[u.Category] = bctx.QualifiedEmployees(u.Category)
			ownCache[u.Category] = bctx.QualifiedOwners(u.Category)
		}
		u.employees = empCache[u.Category]
		u.owners = ownCache[u.Category]
	}
}

// dayComputation одна детерминированная итерация по кандидатам дня.
// Никакого разделяемого состояния: каждый вызов движка собирает свой
// экземпляр из свежих чтений.
type dayComputation struct {
	day        time.Time // начало календарного дня
	loc        *time.Location
	policy     *domain.BusinessPolicy
	units      []*serviceUnit
	segments   []domain.BookedSegment
	attendance map[int64][]domain.AttendanceWindow
	now        time.Time
	today      bool
}

// run перебирает кандидатов с шагом slot-interval и возвращает слоты,
// в которые удалось упаковать все единицы подряд
func (c *dayComputation) run() []domain.Slot {
	earliest, latest := c.candidateBounds()
	if earliest >= latest {
		return []domain.Slot{}
	}

	leadCutoff := c.now.Add(time.Duration(c.policy.MinLeadMinutes) * time.Minute)
	strictUntil := c.now.Add(time.Duration(c.policy.SameDayStrictMinutes) * time.Minute)

	slots := make([]domain.Slot, 0)
	for minute := earliest; minute < latest; minute += c.policy.SlotIntervalMinutes {
		startAt := timeutil.AtMinute(c.day, minute, c.loc)
		if startAt.Before(leadCutoff) {
			continue
		}
		if slot, ok := c.tryPlace(minute, startAt, strictUntil); ok {
			slots = append(slots, *slot)
		}
	}

	return slots
}

// candidateBounds возвращает самый ранний старт и самый поздний конец
// среди окон всех единиц
func (c *dayComputation) candidateBounds() (int, int) {
	earliest, latest := domain.MinutesPerDay, 0
	for _, u := range c.units {
		for _, w := range u.windows {
			if w.StartMinute < earliest {
				earliest = w.StartMinute
			}
			if w.EndMinute > latest {
				latest = w.EndMinute
			}
		}
	}
	return earliest, latest
}

// tryPlace пытается разместить все единицы подряд, начиная с кандидата.
// Единица N начинается ровно там, где закончилась N-1. Любой сбой —
// и кандидат отвергается целиком: частичные слоты не эмитируются.
func (c *dayComputation) tryPlace(startMinute int, startAt time.Time, strictUntil time.Time) (*domain.Slot, bool) {
	// Строгое окно определяется стартом слота: внутри него ёмкость
	// даёт только подтверждённая посещаемость, без отката на ростер
	strict := c.today && startAt.Before(strictUntil)

	cursor := startMinute
	minEmployees, minOwners := -1, -1
	rosterUsed := false

	for _, u := range c.units {
		unitStart := cursor
		unitEnd := cursor + u.DurationMinutes

		// Размещение должно целиком попасть в одно из окон категории
		if !fitsAnyWindow(u.windows, unitStart, unitEnd) {
			return nil, false
		}

		unitStartAt := timeutil.AtMinute(c.day, unitStart, c.loc)
		unitEndAt := timeutil.AtMinute(c.day, unitEnd, c.loc)

		employees, owners, fromRoster, ok := c.unitCapacity(u, unitStartAt, unitEndAt, strict)
		if !ok {
			return nil, false
		}
		if fromRoster {
			rosterUsed = true
		}

		// Ёмкость слота — бутылочное горлышко по всем единицам
		if minEmployees < 0 || employees < minEmployees {
			minEmployees = employees
		}
		if minOwners < 0 || owners < minOwners {
			minOwners = owners
		}

		cursor = unitEnd
	}

	source, confidence := domain.SlotSourceAttendance, domain.SlotConfidenceConfirmed
	if rosterUsed {
		source, confidence = domain.SlotSourceRoster, domain.SlotConfidenceTentative
	}

	return &domain.Slot{
		StartAt:            startAt,
		EndAt:              timeutil.AtMinute(c.day, cursor, c.loc),
		AvailableEmployees: minEmployees,
		AvailableOwners:    minOwners,
		Source:             source,
		Confidence:         confidence,
	}, true
}

// unitCapacity выбирает источник ёмкости для единицы и возвращает
// количество свободных сотрудников и владельцев.
// Правила выбора источника:
//   - будущий день — только ростер;
//   - сегодня в строгом окне — только посещаемость, ноль = отказ;
//   - сегодня вне строгого окна — посещаемость, при нуле откат на ростер.
func (c *dayComputation) unitCapacity(u *serviceUnit, start, end time.Time, strict bool) (employees, owners int, fromRoster, ok bool) {
	if !c.today {
		employees, owners = c.capacity(u.employees, u.owners, u.Category, start, end)
		return employees, owners, true, employees+owners > 0
	}

	attended := c.attendedEmployees(u.employees, start, end)
	attEmployees, attOwners := c.capacity(attended, u.owners, u.Category, start, end)

	if strict {
		if attEmployees+attOwners == 0 {
			return 0, 0, false, false
		}
		return attEmployees, attOwners, false, true
	}

	if attEmployees+attOwners > 0 {
		return attEmployees, attOwners, false, true
	}

	employees, owners = c.capacity(u.employees, u.owners, u.Category, start, end)
	return employees, owners, true, employees+owners > 0
}

// attendedEmployees оставляет только сотрудников, чьё окно присутствия
// покрывает интервал целиком: clock-in не позже начала и clock-out
// отсутствует либо не раньше конца
func (c *dayComputation) attendedEmployees(employees []domain.Provider, start, end time.Time) []domain.Provider {
	attended := make([]domain.Provider, 0, len(employees))
	for _, p := range employees {
		for i := range c.attendance[p.ID] {
			if c.attendance[p.ID][i].Covers(start, end) {
				attended = append(attended, p)
				break
			}
		}
	}
	return attended
}

// capacity вычитает из квалифицированных исполнителей занятых
// пересекающимися сегментами той же категории. Назначенный сегмент
// убирает конкретного исполнителя; неназначенный занимает обезличенное
// место — сначала сотрудника, потом владельца. Порядок «сотрудники
// раньше владельцев» сохранён как наблюдаемое поведение платформы
// (продуктовое решение, ожидает подтверждения).
func (c *dayComputation) capacity(employees, owners []domain.Provider, category string, start, end time.Time) (int, int) {
	empFree := make(map[int64]struct{}, len(employees))
	for _, p := range employees {
		empFree[p.ID] = struct{}{}
	}
	ownFree := make(map[int64]struct{}, len(owners))
	for _, p := range owners {
		ownFree[p.ID] = struct{}{}
	}

	unassigned := 0
	for i := range c.segments {
		seg := &c.segments[i]
		if seg.Category != category || !seg.Overlaps(start, end) {
			continue
		}
		switch {
		case seg.EmployeeID != nil:
			delete(empFree, *seg.EmployeeID)
		case seg.OwnerID != nil:
			delete(ownFree, *seg.OwnerID)
		default:
			unassigned++
		}
	}

	empCount := len(empFree)
	ownCount := len(ownFree)
	for i := 0; i < unassigned; i++ {
		if empCount > 0 {
			empCount--
		} else if ownCount > 0 {
			ownCount--
		}
	}

	return empCount, ownCount
}

// fitsAnyWindow проверяет, что [start, end) целиком лежит в одном из окон
func fitsAnyWindow(windows []domain.TimeWindow, start, end int) bool {
	for _, w := range windows {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}
