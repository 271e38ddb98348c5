package content

import (
	"context"
	"fmt"
	"time"

	"social_dashboard/internal/model"
	"social_dashboard/internal/storage"
)

// DraftMaxLen is the maximum draft length in runes. It matches the field
// limit of the external workflow tool so exports stay compatible.
const DraftMaxLen = 2000

// Manager provides CRUD over pipeline and calendar items, translated into
// the generic document shape.
type Manager struct {
	store storage.Storage
}

// NewManager creates a Manager over the given storage.
func NewManager(store storage.Storage) *Manager {
	return &Manager{store: store}
}

// AddPipelineItem creates a pipeline item. An empty status defaults to
// Inspiration; unknown statuses are rejected.
func (m *Manager) AddPipelineItem(ctx context.Context, title, originalURL string, status model.PipelineStatus) (Document, error) {
	item := &model.PipelineItem{
		Topic:       title,
		OriginalURL: originalURL,
		Status:      status,
	}
	if err := m.store.CreatePipelineItem(ctx, item); err != nil {
		return Document{}, fmt.Errorf("add pipeline item: %w", err)
	}
	return PipelineDocument(item), nil
}

// ListPipelineItems returns pipeline items as documents, optionally
// filtered by status.
func (m *Manager) ListPipelineItems(ctx context.Context, status model.PipelineStatus) ([]Document, error) {
	items, err := m.store.ListPipelineItems(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list pipeline items: %w", err)
	}
	docs := make([]Document, 0, len(items))
	for i := range items {
		docs = append(docs, PipelineDocument(&items[i]))
	}
	return docs, nil
}

// UpdatePipelineStatus moves a pipeline item to a new workflow state.
func (m *Manager) UpdatePipelineStatus(ctx context.Context, id string, status model.PipelineStatus) error {
	if err := m.store.UpdatePipelineStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update pipeline status: %w", err)
	}
	return nil
}

// UpdatePipelineDraft sets a pipeline item's draft, truncated to
// DraftMaxLen, transitioning the item to Drafted.
func (m *Manager) UpdatePipelineDraft(ctx context.Context, id, draft string) error {
	if err := m.store.UpdatePipelineDraft(ctx, id, TruncateDraft(draft)); err != nil {
		return fmt.Errorf("update pipeline draft: %w", err)
	}
	return nil
}

// AddCalendarItem creates a calendar item, optionally scheduled.
func (m *Manager) AddCalendarItem(ctx context.Context, topic string, scheduledDate *time.Time) (Document, error) {
	item := &model.CalendarItem{
		Topic:         topic,
		ScheduledDate: scheduledDate,
	}
	if err := m.store.CreateCalendarItem(ctx, item); err != nil {
		return Document{}, fmt.Errorf("add calendar item: %w", err)
	}
	return CalendarDocument(item), nil
}

// ListCalendarItems returns calendar items as documents. The hasDraft
// filter selects drafted items (true), undrafted ones (false), or all (nil).
func (m *Manager) ListCalendarItems(ctx context.Context, hasDraft *bool) ([]Document, error) {
	items, err := m.store.ListCalendarItems(ctx, hasDraft)
	if err != nil {
		return nil, fmt.Errorf("list calendar items: %w", err)
	}
	docs := make([]Document, 0, len(items))
	for i := range items {
		docs = append(docs, CalendarDocument(&items[i]))
	}
	return docs, nil
}

// UpdateCalendarDraft sets a calendar item's draft, truncated to
// DraftMaxLen, transitioning the item to Drafted. Regenerating overwrites
// the previous draft without changing the item's identity.
func (m *Manager) UpdateCalendarDraft(ctx context.Context, id, draft string) error {
	if err := m.store.UpdateCalendarDraft(ctx, id, TruncateDraft(draft)); err != nil {
		return fmt.Errorf("update calendar draft: %w", err)
	}
	return nil
}

// TruncateDraft caps draft text at DraftMaxLen runes.
func TruncateDraft(s string) string {
	runes := []rune(s)
	if len(runes) <= DraftMaxLen {
		return s
	}
	return string(runes[:DraftMaxLen])
}
