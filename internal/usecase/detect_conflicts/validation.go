package detect_conflicts

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if !req.Reason.Valid() {
		return fmt.Errorf("%w: unknown conflict reason %q", ErrInvalidInput, req.Reason)
	}

	return nil
}
