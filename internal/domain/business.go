package domain

import "time"

// Business represents a business exposing bookable time slots
type Business struct {
	ID          int64
	Name        string
	Locale      string
	Timezone    string
	OwnerUserID int64
	OwnerName   string
	OwnerEmail  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy returns true if the user manages this business
func (b *Business) IsOwnedBy(userID int64) bool {
	return b.OwnerUserID == userID
}

// Contact бизнес-скоупная идентичность клиента
// Может быть связан с аккаунтом пользователя, но принадлежит бизнесу
type Contact struct {
	ID         int64
	BusinessID int64
	UserID     *int64 // nil = контакт без аккаунта (гостевой)
	Name       string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasUser returns true if the contact is linked to an authenticated account
func (c *Contact) HasUser() bool {
	return c.UserID != nil
}

// Service represents a bookable service of a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
