// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"
	"time"

	"social_dashboard/internal/model"
)

// ErrNotFound is returned by targeted updates when no row matches the id.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	UpsertLinkedInPost(ctx context.Context, post *model.LinkedInPost) error
	ListLinkedInPosts(ctx context.Context, limit int) ([]model.LinkedInPost, error)
	TopLinkedInPosts(ctx context.Context, metric string, limit int) ([]model.LinkedInPost, error)
	CountLinkedInPosts(ctx context.Context) (int, error)
	SumLinkedInViews(ctx context.Context) (int64, error)

	UpsertTwitterPost(ctx context.Context, post *model.TwitterPost) error
	ListTwitterPosts(ctx context.Context, limit int) ([]model.TwitterPost, error)
	TopTwitterPosts(ctx context.Context, metric string, limit int) ([]model.TwitterPost, error)
	CountTwitterPosts(ctx context.Context) (int, error)
	SumTwitterViews(ctx context.Context) (int64, error)

	AddFollowerSnapshot(ctx context.Context, platform string, followers, following int) error
	FollowerHistory(ctx context.Context, platform string) ([]model.FollowerSnapshot, error)

	AddDailyImpressions(ctx context.Context, platform string, date time.Time, impressions int64, engagements int) error
	ImpressionsHistory(ctx context.Context, platform string) ([]model.DailyImpressions, error)

	CreatePipelineItem(ctx context.Context, item *model.PipelineItem) error
	ListPipelineItems(ctx context.Context, status model.PipelineStatus) ([]model.PipelineItem, error)
	GetPipelineItem(ctx context.Context, id string) (*model.PipelineItem, error)
	UpdatePipelineStatus(ctx context.Context, id string, status model.PipelineStatus) error
	UpdatePipelineDraft(ctx context.Context, id, draft string) error

	CreateCalendarItem(ctx context.Context, item *model.CalendarItem) error
	ListCalendarItems(ctx context.Context, hasDraft *bool) ([]model.CalendarItem, error)
	GetCalendarItem(ctx context.Context, id string) (*model.CalendarItem, error)
	UpdateCalendarDraft(ctx context.Context, id, draft string) error

	Close() error
}
