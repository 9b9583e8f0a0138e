package take_reservation

import "fmt"

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive, got %d", ErrInvalidInput, req.BusinessID)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive, got %d", ErrInvalidInput, req.ServiceID)
	}
	if req.ContactID == nil && req.Email == "" {
		return fmt.Errorf("%w: either contactID or email is required", ErrInvalidInput)
	}
	if req.ContactID != nil && *req.ContactID <= 0 {
		return fmt.Errorf("%w: contactID must be positive, got %d", ErrInvalidInput, *req.ContactID)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	return nil
}
