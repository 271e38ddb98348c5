// Package model defines the domain types used across the application.
package model

import (
	"strings"
	"time"
)

// Platform tags used in follower snapshots and impression aggregates.
const (
	PlatformLinkedIn = "linkedin"
	PlatformTwitter  = "twitter"
)

// LinkedInPost holds scraped metrics for a single LinkedIn post.
type LinkedInPost struct {
	ID         int64
	PostID     string
	URL        string
	Content    string
	DatePosted time.Time
	Views      int64
	Likes      int
	Comments   int
	Reposts    int
	ScrapedAt  time.Time
}

// Engagement returns the sum of the post's non-view interaction counters.
func (p *LinkedInPost) Engagement() int {
	return p.Likes + p.Comments + p.Reposts
}

// TwitterPost holds scraped metrics for a single tweet.
type TwitterPost struct {
	ID         int64
	TweetID    string
	URL        string
	Content    string
	DatePosted time.Time
	Views      int64
	Likes      int
	Retweets   int
	Replies    int
	Quotes     int
	ScrapedAt  time.Time
}

// Engagement returns the sum of the tweet's non-view interaction counters.
func (p *TwitterPost) Engagement() int {
	return p.Likes + p.Retweets + p.Replies + p.Quotes
}

// FollowerSnapshot records a point-in-time follower count for a platform.
// Snapshots are append-only; there is no update or delete path.
type FollowerSnapshot struct {
	ID             int64
	Platform       string
	FollowerCount  int
	FollowingCount int
	RecordedAt     time.Time
}

// DailyImpressions records a pre-aggregated daily impression total for a
// platform. Append-only, like FollowerSnapshot.
type DailyImpressions struct {
	ID               int64
	Platform         string
	Date             time.Time
	TotalImpressions int64
	TotalEngagements int
	RecordedAt       time.Time
}

// PipelineStatus is the workflow state of a content pipeline item.
type PipelineStatus string

// Pipeline workflow states, in order of progression.
const (
	StatusInspiration PipelineStatus = "Inspiration"
	StatusDrafted     PipelineStatus = "Drafted"
	StatusApproved    PipelineStatus = "Approved"
	StatusPublished   PipelineStatus = "Published"
)

// ValidPipelineStatus reports whether s is one of the known workflow states.
func ValidPipelineStatus(s PipelineStatus) bool {
	switch s {
	case StatusInspiration, StatusDrafted, StatusApproved, StatusPublished:
		return true
	}
	return false
}

// PipelineItem is a content idea moving through the drafting workflow.
type PipelineItem struct {
	ID          string
	Topic       string
	OriginalURL string
	Status      PipelineStatus
	Draft       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CalendarStatus is the state of a calendar item.
type CalendarStatus string

// Calendar item states.
const (
	CalendarPending CalendarStatus = "Pending"
	CalendarDrafted CalendarStatus = "Drafted"
)

// CalendarItem is a scheduled tweet topic, optionally with a generated draft.
type CalendarItem struct {
	ID            string
	Topic         string
	Draft         string
	ScheduledDate *time.Time
	Status        CalendarStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasDraft reports whether the item carries a non-empty draft after trimming.
func (c *CalendarItem) HasDraft() bool {
	return strings.TrimSpace(c.Draft) != ""
}
