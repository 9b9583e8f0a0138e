package confirm_appointment

import "fmt"

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive, got %d", ErrInvalidInput, req.BusinessID)
	}
	if req.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if req.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return nil
}
