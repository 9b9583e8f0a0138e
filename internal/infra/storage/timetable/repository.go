package timetable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/FihlaTV/timegrid/internal/domain"
	"github.com/FihlaTV/timegrid/pkg/dbmetrics"
	"github.com/FihlaTV/timegrid/pkg/psqlbuilder"
	"github.com/FihlaTV/timegrid/pkg/types"
)

// Repository репозиторий расписаний приёма (Calendar Rule Set)
// Расписание хранится в двух таблицах: timetables (настройки бизнеса)
// и timetable_windows (недельные окна приёма)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusiness загружает расписание бизнеса и собирает доменную модель
// Некорректные данные в хранилище отклоняются конструктором домена
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) (*domain.Timetable, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_granularity_minutes",
		"future_days_limit",
		"same_day_allowed",
		"min_notice_minutes",
		"timezone",
	).
		From("timetables").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var (
		granularity    int
		futureDays     int
		sameDayAllowed bool
		minNotice      int
		timezone       string
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&granularity,
		&futureDays,
		&sameDayAllowed,
		&minNotice,
		&timezone,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTimetableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - scan timetable: %v", ErrScanRow, err)
	}

	weekly, err := r.loadWindows(ctx, executor, businessID)
	if err != nil {
		return nil, err
	}

	return domain.NewTimetable(businessID, weekly, granularity, futureDays, sameDayAllowed, minNotice, timezone)
}

// Save сохраняет расписание бизнеса: настройки через upsert, окна перезаписью
// Вызывать внутри транзакции, чтобы читатели не видели наполовину обновлённое расписание
func (r *Repository) Save(ctx context.Context, tt *domain.Timetable) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("timetables").
		Columns(
			"business_id",
			"slot_granularity_minutes",
			"future_days_limit",
			"same_day_allowed",
			"min_notice_minutes",
			"timezone",
		).
		Values(
			tt.BusinessID,
			tt.SlotGranularityMinutes,
			tt.FutureDaysLimit,
			tt.SameDayAllowed,
			tt.MinNoticeMinutes,
			tt.Timezone,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			future_days_limit = EXCLUDED.future_days_limit,
			same_day_allowed = EXCLUDED.same_day_allowed,
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("timetable_windows").
		Where(squirrel.Eq{"business_id": tt.BusinessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Save - execute delete: %v", ErrExecQuery, err)
	}

	for weekday, windows := range tt.Weekly {
		for _, w := range windows {
			insertQuery, insertArgs, err := psqlbuilder.Insert("timetable_windows").
				Columns("business_id", "weekday", "open_time", "close_time").
				Values(tt.BusinessID, int(weekday), w.Start.String(), w.End.String()).
				ToSql()

			if err != nil {
				return fmt.Errorf("%w: Save - build window insert: %v", ErrBuildQuery, err)
			}

			if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
				return fmt.Errorf("%w: Save - execute window insert: %v", ErrExecQuery, err)
			}
		}
	}

	return nil
}

// loadWindows загружает недельные окна приёма бизнеса
func (r *Repository) loadWindows(ctx context.Context, executor dbmetrics.DBExecutor, businessID int64) (map[time.Weekday][]domain.TimeWindow, error) {
	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time").
		From("timetable_windows").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC, open_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	weekly := make(map[time.Weekday][]domain.TimeWindow)

	for rows.Next() {
		var weekday int
		var openTime, closeTime types.TimeString

		if err := rows.Scan(&weekday, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: loadWindows - scan row: %v", ErrScanRow, err)
		}

		day := time.Weekday(weekday)
		weekly[day] = append(weekly[day], domain.TimeWindow{Start: openTime, End: closeTime})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadWindows - rows error: %v", ErrScanRow, err)
	}

	return weekly, nil
}
