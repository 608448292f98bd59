package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/pkg/psqlbuilder"
)

const tableDrafts = "booking_drafts"

// Repository репозиторий черновиков сессий бронирования
// Сессия хранится целиком в jsonb, отдельные колонки нужны для фильтрации и очистки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория черновиков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую сессию
func (r *Repository) Create(ctx context.Context, session *domain.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Insert(tableDrafts).
		Columns("id", "business_slug", "status", "payload").
		Values(session.ID(), session.BusinessSlug(), string(session.Status()), string(payload)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// Get загружает сессию по ID
func (r *Repository) Get(ctx context.Context, id string) (*domain.Session, error) {
	query, args, err := psqlbuilder.Select("payload").
		From(tableDrafts).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var payload []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan draft: %v", ErrScanRow, err)
	}

	return decodeSession(payload)
}

// Update перезаписывает сохраненную сессию
func (r *Repository) Update(ctx context.Context, session *domain.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update(tableDrafts).
		Set("status", string(session.Status())).
		Set("payload", string(payload)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": session.ID()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// DeleteStale удаляет черновики, которые не обновлялись с момента before
func (r *Repository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := psqlbuilder.Delete(tableDrafts).
		Where(squirrel.Lt{"updated_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStale - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStale - execute delete: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStale - rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

func encodeSession(session *domain.Session) ([]byte, error) {
	payload, err := json.Marshal(session.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("%w: encode session %s: %v", ErrBuildQuery, session.ID(), err)
	}
	return payload, nil
}

func decodeSession(payload []byte) (*domain.Session, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedDraft, err)
	}
	session, err := domain.RestoreSession(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedDraft, err)
	}
	return session, nil
}
