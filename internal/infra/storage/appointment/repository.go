package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/dbmetrics"
	"github.com/FihlaTV/timegrid/pkg/psqlbuilder"
)

// Коды ошибок Postgres, транслируемые в ErrSlotConflict
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// Колонки выборки бронирования (с join контакта для имени и email)
var selectColumns = []string{
	"a.id",
	"a.business_id",
	"a.contact_id",
	"a.service_id",
	"a.issuer_id",
	"a.start_at",
	"a.end_at",
	"a.status",
	"a.code",
	"a.hash",
	"a.comments",
	"a.service_name",
	"a.archived",
	"a.cancellation_reason",
	"a.canceled_at",
	"a.created_at",
	"a.updated_at",
	"c.name",
	"c.email",
}

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
//
// Проверка пересечения и вставка строки образуют одну атомарную единицу:
// таблица appointments несёт exclusion constraint по
// (business_id, service_id, [start_at, end_at)) для активных бронирований,
// поэтому даже при гонке двух конкурентных запросов за один слот ровно одна
// вставка проходит, вторая получает ErrSlotConflict.
//
// Если в контексте передана активная транзакция (через context.Value),
// использует её - usecase бронирования выполняет предварительную проверку
// пересечений и вставку в одной сериализуемой транзакции.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"business_id",
			"contact_id",
			"service_id",
			"issuer_id",
			"start_at",
			"end_at",
			"status",
			"code",
			"hash",
			"comments",
			"service_name",
		).
		Values(
			appt.BusinessID,
			appt.ContactID,
			appt.ServiceID,
			appt.IssuerID,
			appt.StartAt,
			appt.EndAt,
			appt.Status,
			appt.Code,
			appt.Hash,
			appt.Comments,
			appt.ServiceName,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isConflictError(err) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetOverlapping получает активные бронирования бизнеса, реально пересекающие
// интервал [start, end) по указанной услуге
// Граничащие интервалы (end_at = start) пересечением не считаются
//
// Внутри транзакции добавляет FOR UPDATE OF a - usecase бронирования блокирует
// конкурирующие строки на время проверки и вставки
func (r *Repository) GetOverlapping(ctx context.Context, businessID, serviceID int64, start, end time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.baseSelect().
		Where(squirrel.Eq{"a.business_id": businessID}).
		Where(squirrel.Eq{"a.service_id": serviceID}).
		Where(squirrel.Lt{"a.start_at": end}).
		Where(squirrel.Gt{"a.end_at": start}).
		Where(squirrel.Eq{"a.archived": false}).
		Where(squirrel.Eq{"a.status": activeStatusStrings()}).
		OrderBy("a.start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetAgenda получает бронирования бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по услуге, контакту, периоду, статусу
// и включению архивных бронирований
func (r *Repository) GetAgenda(ctx context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.baseSelect().
		Where(squirrel.Eq{"a.business_id": filter.BusinessID})

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.service_id": *filter.ServiceID})
	}
	if filter.ContactID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.contact_id": *filter.ContactID})
	}
	if filter.StartAt != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.start_at": *filter.StartAt})
	}
	if filter.EndAt != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"a.start_at": *filter.EndAt})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": string(*filter.Status)})
	} else if !filter.IncludeArchived {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.archived": false})
	}

	selectBuilder = selectBuilder.OrderBy("a.start_at ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAgenda - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAgenda - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByIssuerUser получает неархивные бронирования, оформленные пользователем
// или на контакты, привязанные к его аккаунту, упорядоченные по началу
func (r *Repository) GetByIssuerUser(ctx context.Context, userID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Or{
			squirrel.Eq{"a.issuer_id": userID},
			squirrel.Eq{"c.user_id": userID},
		}).
		Where(squirrel.Eq{"a.archived": false}).
		OrderBy("a.start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIssuerUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIssuerUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByHashPrefixAndEmail ищет бронирование бизнеса, хеш которого начинается
// с указанного префикса И email контакта совпадает с указанным
// Оба предиката обязательны - перебор по одному коду невозможен
func (r *Repository) GetByHashPrefixAndEmail(ctx context.Context, businessID int64, hashPrefix, email string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"a.business_id": businessID}).
		Where(squirrel.Like{"a.hash": escapeLikePrefix(strings.ToLower(hashPrefix)) + "%"}).
		Where(squirrel.Eq{"c.email": strings.ToLower(email)}).
		Where(squirrel.Eq{"a.archived": false}).
		OrderBy("a.created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByHashPrefixAndEmail - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByHashPrefixAndEmail")
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
// Бронирование архивируется, физическое удаление не используется
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCanceled).
		Set("archived", true).
		Set("cancellation_reason", reason).
		Set("canceled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"archived": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Helper methods

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("appointments a").
		Join("contacts c ON c.id = a.contact_id")
}

func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.BusinessID,
		&appt.ContactID,
		&appt.ServiceID,
		&appt.IssuerID,
		&appt.StartAt,
		&appt.EndAt,
		&appt.Status,
		&appt.Code,
		&appt.Hash,
		&appt.Comments,
		&appt.ServiceName,
		&appt.Archived,
		&appt.CancellationReason,
		&appt.CanceledAt,
		&createdAt,
		&updatedAt,
		&appt.ContactName,
		&appt.ContactEmail,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс бронирований
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appt domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appt.ID,
			&appt.BusinessID,
			&appt.ContactID,
			&appt.ServiceID,
			&appt.IssuerID,
			&appt.StartAt,
			&appt.EndAt,
			&appt.Status,
			&appt.Code,
			&appt.Hash,
			&appt.Comments,
			&appt.ServiceName,
			&appt.Archived,
			&appt.CancellationReason,
			&appt.CanceledAt,
			&createdAt,
			&updatedAt,
			&appt.ContactName,
			&appt.ContactEmail,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// isConflictError проверяет, что ошибка Postgres - нарушение ограничения
// непересечения активных бронирований
func isConflictError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgExclusionViolation || pqErr.Code == pgUniqueViolation
	}
	return false
}

// escapeLikePrefix экранирует спецсимволы LIKE в пользовательском префиксе
func escapeLikePrefix(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
