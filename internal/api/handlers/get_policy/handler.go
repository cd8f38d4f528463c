package get_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	policySvc "github.com/m04kA/SMC-ScheduleService/internal/service/policy"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgBusinessNotFound  = "бизнес не найден"
)

// PolicyResponse HTTP response model эффективной (нормализованной) политики
type PolicyResponse struct {
	BusinessID               int64  `json:"businessId"`
	HorizonDays              int    `json:"horizonDays"`
	MinLeadMinutes           int    `json:"minLeadMinutes"`
	SlotIntervalMinutes      int    `json:"slotIntervalMinutes"`
	SameDayStrictMinutes     int    `json:"sameDayStrictMinutes"`
	AllowPublicFullPayment   bool   `json:"allowPublicFullPayment"`
	AllowPublicDownpayment   bool   `json:"allowPublicDownpayment"`
	DefaultPublicPaymentType string `json:"defaultPublicPaymentType"`
	BookingV2Enabled         bool   `json:"bookingV2Enabled"`
}

type Handler struct {
	resolver PolicyResolver
	logger   Logger
}

func NewHandler(resolver PolicyResolver, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessIDStr := vars["businessId"]
	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/policy - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	policy, err := h.resolver.Resolve(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, policySvc.ErrBusinessNotFound) {
			h.logger.Warn("GET /businesses/{id}/policy - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)
			return
		}
		h.logger.Error("GET /businesses/{id}/policy - Failed to resolve policy: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/policy - Policy resolved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, fromDomain(policy))
}

func fromDomain(p *domain.BusinessPolicy) *PolicyResponse {
	return &PolicyResponse{
		BusinessID:               p.BusinessID,
		HorizonDays:              p.HorizonDays,
		MinLeadMinutes:           p.MinLeadMinutes,
		SlotIntervalMinutes:      p.SlotIntervalMinutes,
		SameDayStrictMinutes:     p.SameDayStrictMinutes,
		AllowPublicFullPayment:   p.AllowPublicFullPayment,
		AllowPublicDownpayment:   p.AllowPublicDownpayment,
		DefaultPublicPaymentType: string(p.DefaultPublicPaymentType),
		BookingV2Enabled:         p.BookingV2Enabled,
	}
}
