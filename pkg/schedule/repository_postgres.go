package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// pgQueryer is implemented by both the pool and a transaction.
type pgQueryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) queryer() pgQueryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *PostgresRepository) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&PostgresRepository{pool: r.pool, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.queryer().Query(ctx, listEventsQuery)
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

func (r *PostgresRepository) StoreEvent(ctx context.Context, event Event) (Event, error) {
	query := `INSERT INTO events (
                    year,
                    month,
                    day,
                    start_time,
                    end_time,
                    title,
                    repeat_kind,
                    repeat_group
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := r.queryer().QueryRow(ctx, query,
		event.Year,
		event.Month,
		event.Day,
		event.Start,
		event.End,
		event.Title,
		repeatKindValue(event.Repeat),
		nullString(event.RepeatGroup),
	).Scan(&event.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return event, nil
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, id int, start, end, title string) (bool, error) {
	query := `UPDATE events SET start_time = $1, end_time = $2, title = $3 WHERE id = $4`
	tag, err := r.queryer().Exec(ctx, query, start, end, title, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) DeleteEvent(ctx context.Context, id int) (bool, error) {
	tag, err := r.queryer().Exec(ctx, fmt.Sprintf(deleteEventQuery, "$1"), id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) DeleteRepeatGroup(ctx context.Context, group string) (int, error) {
	tag, err := r.queryer().Exec(ctx, fmt.Sprintf(deleteGroupQuery, "$1"), group)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
