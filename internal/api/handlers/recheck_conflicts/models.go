package recheck_conflicts

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	detectConflicts "github.com/m04kA/SMC-ScheduleService/internal/usecase/detect_conflicts"
)

// RecheckConflictsRequest HTTP request model
type RecheckConflictsRequest struct {
	Reason     string `json:"reason"`
	ChangeDate string `json:"changeDate,omitempty"` // YYYY-MM-DD, опционально
	Detail     string `json:"detail,omitempty"`
}

// RecheckConflictsResponse HTTP response model
type RecheckConflictsResponse struct {
	Scanned   int `json:"scanned"`
	Conflicts int `json:"conflicts"`
}

// ToUseCaseRequest создает запрос use case из HTTP запроса
func (r *RecheckConflictsRequest) ToUseCaseRequest(businessID int64) (*detectConflicts.Request, error) {
	var changeDate time.Time
	if r.ChangeDate != "" {
		var err error
		changeDate, err = time.Parse(domain.DateFormat, r.ChangeDate)
		if err != nil {
			return nil, err
		}
	}

	return &detectConflicts.Request{
		BusinessID: businessID,
		Reason:     domain.ConflictReason(r.Reason),
		ChangeDate: changeDate,
		Detail:     r.Detail,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *detectConflicts.Response) *RecheckConflictsResponse {
	return &RecheckConflictsResponse{
		Scanned:   resp.Scanned,
		Conflicts: resp.Conflicts,
	}
}
