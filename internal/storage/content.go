package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"social_dashboard/internal/model"
)

// CreatePipelineItem inserts a new pipeline item with a generated id and
// populates its timestamps. An empty status defaults to Inspiration.
func (s *SQLite) CreatePipelineItem(ctx context.Context, item *model.PipelineItem) error {
	if item.Status == "" {
		item.Status = model.StatusInspiration
	}
	if !model.ValidPipelineStatus(item.Status) {
		return fmt.Errorf("invalid pipeline status %q", item.Status)
	}

	item.ID = uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO content_pipeline (id, topic, original_url, status, draft, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Topic, item.OriginalURL, string(item.Status), nullString(item.Draft),
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert pipeline item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// ListPipelineItems returns pipeline items newest-first, optionally
// filtered by status. An empty status means all items.
func (s *SQLite) ListPipelineItems(ctx context.Context, status model.PipelineStatus) ([]model.PipelineItem, error) {
	query := `SELECT id, topic, original_url, status, draft, created_at, updated_at
		 FROM content_pipeline`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pipeline items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.PipelineItem
	for rows.Next() {
		item, err := scanPipelineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetPipelineItem returns a single pipeline item by its id.
func (s *SQLite) GetPipelineItem(ctx context.Context, id string) (*model.PipelineItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, original_url, status, draft, created_at, updated_at
		 FROM content_pipeline WHERE id = ?`, id,
	)
	item, err := scanPipelineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdatePipelineStatus moves a pipeline item to a new workflow state.
func (s *SQLite) UpdatePipelineStatus(ctx context.Context, id string, status model.PipelineStatus) error {
	if !model.ValidPipelineStatus(status) {
		return fmt.Errorf("invalid pipeline status %q", status)
	}
	return s.execOne(ctx,
		`UPDATE content_pipeline SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeLayout), id,
	)
}

// UpdatePipelineDraft sets a pipeline item's draft text and transitions its
// status to Drafted.
func (s *SQLite) UpdatePipelineDraft(ctx context.Context, id, draft string) error {
	return s.execOne(ctx,
		`UPDATE content_pipeline SET draft = ?, status = ?, updated_at = ? WHERE id = ?`,
		draft, string(model.StatusDrafted), time.Now().UTC().Format(timeLayout), id,
	)
}

// CreateCalendarItem inserts a new calendar item with a generated id.
func (s *SQLite) CreateCalendarItem(ctx context.Context, item *model.CalendarItem) error {
	if item.Status == "" {
		item.Status = model.CalendarPending
	}

	item.ID = uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	var scheduled any
	if item.ScheduledDate != nil {
		scheduled = item.ScheduledDate.UTC().Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO twitter_calendar (id, topic, draft, scheduled_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Topic, nullString(item.Draft), scheduled, string(item.Status),
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert calendar item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// ListCalendarItems returns calendar items ordered by scheduled date
// (unscheduled last). The hasDraft filter selects items with a non-empty
// draft after trimming (true), without one (false), or all items (nil).
func (s *SQLite) ListCalendarItems(ctx context.Context, hasDraft *bool) ([]model.CalendarItem, error) {
	query := `SELECT id, topic, draft, scheduled_date, status, created_at, updated_at
		 FROM twitter_calendar`
	if hasDraft != nil {
		if *hasDraft {
			query += ` WHERE draft IS NOT NULL AND TRIM(draft) != ''`
		} else {
			query += ` WHERE draft IS NULL OR TRIM(draft) = ''`
		}
	}
	query += ` ORDER BY scheduled_date IS NULL, scheduled_date ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.CalendarItem
	for rows.Next() {
		item, err := scanCalendarItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetCalendarItem returns a single calendar item by its id.
func (s *SQLite) GetCalendarItem(ctx context.Context, id string) (*model.CalendarItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, draft, scheduled_date, status, created_at, updated_at
		 FROM twitter_calendar WHERE id = ?`, id,
	)
	item, err := scanCalendarItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateCalendarDraft sets a calendar item's draft text and transitions its
// status to Drafted. Regeneration overwrites the draft in place.
func (s *SQLite) UpdateCalendarDraft(ctx context.Context, id, draft string) error {
	return s.execOne(ctx,
		`UPDATE twitter_calendar SET draft = ?, status = ?, updated_at = ? WHERE id = ?`,
		draft, string(model.CalendarDrafted), time.Now().UTC().Format(timeLayout), id,
	)
}

func (s *SQLite) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanPipelineItem(row scannable) (*model.PipelineItem, error) {
	var item model.PipelineItem
	var url, draft sql.NullString
	var status, created, updated string
	err := row.Scan(&item.ID, &item.Topic, &url, &status, &draft, &created, &updated)
	if err != nil {
		return nil, err
	}
	item.OriginalURL = url.String
	item.Draft = draft.String
	item.Status = model.PipelineStatus(status)
	item.CreatedAt, _ = time.Parse(timeLayout, created)
	item.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &item, nil
}

func scanCalendarItem(row scannable) (*model.CalendarItem, error) {
	var item model.CalendarItem
	var draft, scheduled sql.NullString
	var status, created, updated string
	err := row.Scan(&item.ID, &item.Topic, &draft, &scheduled, &status, &created, &updated)
	if err != nil {
		return nil, err
	}
	item.Draft = draft.String
	if scheduled.Valid {
		t, _ := time.Parse(dateLayout, scheduled.String)
		item.ScheduledDate = &t
	}
	item.Status = model.CalendarStatus(status)
	item.CreatedAt, _ = time.Parse(timeLayout, created)
	item.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &item, nil
}
