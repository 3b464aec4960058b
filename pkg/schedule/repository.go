package schedule

import (
	"context"
	"database/sql"

	"github.com/scheinerik/schedule/pkg/recurrence"
)

type Repository interface {
	// WithTransaction runs fn against a repository bound to one transaction, committing when fn
	// returns nil and rolling back otherwise.
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	ListEvents(ctx context.Context) ([]Event, error)
	StoreEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, id int, start, end, title string) (bool, error)
	DeleteEvent(ctx context.Context, id int) (bool, error)
	DeleteRepeatGroup(ctx context.Context, group string) (int, error)
}

const (
	listEventsQuery = `SELECT id, year, month, day, start_time, end_time, title, repeat_kind, repeat_group
              FROM events
              ORDER BY id`
	deleteEventQuery = `DELETE FROM events WHERE id = %s`
	deleteGroupQuery = `DELETE FROM events WHERE repeat_group = %s`
)

// eventRow mirrors an events row; repeat columns are nullable.
type eventRow struct {
	id          int
	year        int
	month       int
	day         int
	start       string
	end         string
	title       string
	repeatKind  sql.NullString
	repeatGroup sql.NullString
}

func (r eventRow) toEvent() Event {
	event := Event{
		Id:    r.id,
		Year:  r.year,
		Month: r.month,
		Day:   r.day,
		Start: r.start,
		End:   r.end,
		Title: r.title,
	}
	if r.repeatKind.Valid {
		event.Repeat = recurrence.Kind(r.repeatKind.String)
	}
	if r.repeatGroup.Valid {
		event.RepeatGroup = r.repeatGroup.String
	}
	return event
}

func (r *eventRow) scanTargets() []any {
	return []any{&r.id, &r.year, &r.month, &r.day, &r.start, &r.end, &r.title, &r.repeatKind, &r.repeatGroup}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func repeatKindValue(kind recurrence.Kind) sql.NullString {
	if kind == recurrence.None {
		return sql.NullString{}
	}
	return nullString(string(kind))
}
