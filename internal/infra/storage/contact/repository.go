package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/dbmetrics"
	"github.com/FihlaTV/timegrid/pkg/psqlbuilder"
)

var selectColumns = []string{
	"id",
	"business_id",
	"user_id",
	"name",
	"email",
	"created_at",
	"updated_at",
}

// Repository репозиторий бизнес-скоупных контактов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория контактов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает контакт бизнеса по ID
func (r *Repository) GetByID(ctx context.Context, businessID, id int64) (*domain.Contact, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("contacts").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// FindByEmail ищет контакт бизнеса по email (без учёта регистра)
// Используется гостевым потоком бронирования
func (r *Repository) FindByEmail(ctx context.Context, businessID int64, email string) (*domain.Contact, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("contacts").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"email": strings.ToLower(email)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByEmail - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "FindByEmail")
}

// FindByUser ищет контакт бизнеса, привязанный к аккаунту пользователя
func (r *Repository) FindByUser(ctx context.Context, businessID, userID int64) (*domain.Contact, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("contacts").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByUser - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "FindByUser")
}

func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Contact, error) {
	var contact domain.Contact
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&contact.ID,
		&contact.BusinessID,
		&contact.UserID,
		&contact.Name,
		&contact.Email,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan contact: %v", ErrScanRow, op, err)
	}

	contact.CreatedAt = createdAt.Time
	contact.UpdatedAt = updatedAt.Time

	return &contact, nil
}
