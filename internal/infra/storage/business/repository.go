package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/dbmetrics"
	"github.com/FihlaTV/timegrid/pkg/psqlbuilder"
)

// Repository репозиторий бизнесов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бизнес по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"locale",
		"timezone",
		"owner_user_id",
		"owner_name",
		"owner_email",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var biz domain.Business
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&biz.ID,
		&biz.Name,
		&biz.Locale,
		&biz.Timezone,
		&biz.OwnerUserID,
		&biz.OwnerName,
		&biz.OwnerEmail,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan business: %v", ErrScanRow, err)
	}

	biz.CreatedAt = createdAt.Time
	biz.UpdatedAt = updatedAt.Time

	return &biz, nil
}
