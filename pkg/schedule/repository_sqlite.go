package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SqliteRepository stores events in a sqlite file, the same layout the site used on D1.
type SqliteRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewSqliteRepository(db *sql.DB) *SqliteRepository {
	return &SqliteRepository{db: db}
}

// getQueryer returns the transaction when bound to one, the database otherwise.
func (r *SqliteRepository) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *SqliteRepository) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&SqliteRepository{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SqliteRepository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.getQueryer().QueryContext(ctx, listEventsQuery)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 32)
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, row.toEvent())
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

func (r *SqliteRepository) StoreEvent(ctx context.Context, event Event) (Event, error) {
	query := `INSERT INTO events (
                    year,
                    month,
                    day,
                    start_time,
                    end_time,
                    title,
                    repeat_kind,
                    repeat_group
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.getQueryer().ExecContext(ctx, query,
		event.Year,
		event.Month,
		event.Day,
		event.Start,
		event.End,
		event.Title,
		repeatKindValue(event.Repeat),
		nullString(event.RepeatGroup),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not read inserted id: %w", err)
		log.Error(err)
		return Event{}, err
	}
	event.Id = int(id)
	return event, nil
}

func (r *SqliteRepository) UpdateEvent(ctx context.Context, id int, start, end, title string) (bool, error) {
	query := `UPDATE events SET start_time = ?, end_time = ?, title = ? WHERE id = ?`
	result, err := r.getQueryer().ExecContext(ctx, query, start, end, title, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *SqliteRepository) DeleteEvent(ctx context.Context, id int) (bool, error) {
	result, err := r.getQueryer().ExecContext(ctx, fmt.Sprintf(deleteEventQuery, "?"), id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *SqliteRepository) DeleteRepeatGroup(ctx context.Context, group string) (int, error) {
	result, err := r.getQueryer().ExecContext(ctx, fmt.Sprintf(deleteGroupQuery, "?"), group)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
