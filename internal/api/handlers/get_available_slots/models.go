package get_available_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	BusinessID int64           `json:"businessId"`
	Date       string          `json:"date"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartAt            string `json:"startAt"`
	EndAt              string `json:"endAt"`
	AvailableEmployees int    `json:"availableEmployees"`
	AvailableOwners    int    `json:"availableOwners"`
	Source             string `json:"source"`
	Confidence         string `json:"confidence"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *computeSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartAt:            slot.StartAt.Format(time.RFC3339),
			EndAt:              slot.EndAt.Format(time.RFC3339),
			AvailableEmployees: slot.AvailableEmployees,
			AvailableOwners:    slot.AvailableOwners,
			Source:             string(slot.Source),
			Confidence:         string(slot.Confidence),
		}
	}

	return &AvailableSlotsResponse{
		BusinessID: resp.BusinessID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// services: список через запятую в формате id или id:quantity
func ToUseCaseRequest(businessID int64, date time.Time, servicesStr string) (*computeSlots.Request, error) {
	specs, err := ParseServiceSpecs(servicesStr)
	if err != nil {
		return nil, err
	}

	return &computeSlots.Request{
		BusinessID: businessID,
		Date:       date,
		Services:   specs,
	}, nil
}

// ParseServiceSpecs разбирает параметр services
func ParseServiceSpecs(servicesStr string) ([]domain.ServiceSpec, error) {
	parts := strings.Split(servicesStr, ",")
	specs := make([]domain.ServiceSpec, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idStr, qtyStr, hasQty := strings.Cut(part, ":")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid service id %q", idStr)
		}

		quantity := 1
		if hasQty {
			quantity, err = strconv.Atoi(qtyStr)
			if err != nil {
				return nil, fmt.Errorf("invalid service quantity %q", qtyStr)
			}
		}

		specs = append(specs, domain.ServiceSpec{ServiceID: id, Quantity: quantity})
	}

	return specs, nil
}
