// Package report builds dashboard-ready aggregates from stored metrics.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"social_dashboard/internal/model"
	"social_dashboard/internal/storage"
)

// Platform labels used in combined leaderboard rows.
const (
	PlatformLinkedIn = "LinkedIn"
	PlatformTwitter  = "Twitter"
)

const snippetLength = 100

// CombinedPost is one row of the cross-platform leaderboard.
type CombinedPost struct {
	Platform   string    `json:"platform"`
	Content    string    `json:"content"`
	URL        string    `json:"url"`
	Views      int64     `json:"views"`
	Likes      int       `json:"likes"`
	Date       time.Time `json:"date"`
	Engagement int       `json:"engagement"`
}

// Summary holds total and per-platform post counts and view sums.
type Summary struct {
	LinkedInPosts      int   `json:"linkedin_posts"`
	TwitterPosts       int   `json:"twitter_posts"`
	TotalLinkedInViews int64 `json:"total_linkedin_views"`
	TotalTwitterViews  int64 `json:"total_twitter_views"`
	TotalPosts         int   `json:"total_posts"`
	TotalViews         int64 `json:"total_views"`
}

// CombinedTopPosts merges the per-platform leaderboards into a single
// ranking by views. Each platform's list is truncated to limit before the
// merge and the merged set is truncated again, so a platform whose top
// posts all fall outside the global top can be under-represented. That is
// accepted for a dashboard leaderboard.
func CombinedTopPosts(ctx context.Context, store storage.Storage, limit int) ([]CombinedPost, error) {
	linkedin, err := store.TopLinkedInPosts(ctx, "views", limit)
	if err != nil {
		return nil, fmt.Errorf("top linkedin posts: %w", err)
	}
	twitter, err := store.TopTwitterPosts(ctx, "views", limit)
	if err != nil {
		return nil, fmt.Errorf("top twitter posts: %w", err)
	}

	combined := make([]CombinedPost, 0, len(linkedin)+len(twitter))
	for i := range linkedin {
		p := &linkedin[i]
		combined = append(combined, CombinedPost{
			Platform:   PlatformLinkedIn,
			Content:    Snippet(p.Content, snippetLength),
			URL:        p.URL,
			Views:      p.Views,
			Likes:      p.Likes,
			Date:       p.DatePosted,
			Engagement: p.Engagement(),
		})
	}
	for i := range twitter {
		p := &twitter[i]
		combined = append(combined, CombinedPost{
			Platform:   PlatformTwitter,
			Content:    Snippet(p.Content, snippetLength),
			URL:        p.URL,
			Views:      p.Views,
			Likes:      p.Likes,
			Date:       p.DatePosted,
			Engagement: p.Engagement(),
		})
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Views > combined[j].Views
	})
	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined, nil
}

// SortCombined re-sorts leaderboard rows descending by the named metric.
// Unrecognized metrics sort by views.
func SortCombined(rows []CombinedPost, metric string) {
	sort.SliceStable(rows, func(i, j int) bool {
		switch metric {
		case "engagement":
			return rows[i].Engagement > rows[j].Engagement
		case "likes":
			return rows[i].Likes > rows[j].Likes
		default:
			return rows[i].Views > rows[j].Views
		}
	})
}

// StatsSummary computes post counts and summed views across both platforms.
// An empty database yields an all-zero summary, not an error.
func StatsSummary(ctx context.Context, store storage.Storage) (*Summary, error) {
	linkedinCount, err := store.CountLinkedInPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count linkedin posts: %w", err)
	}
	twitterCount, err := store.CountTwitterPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count twitter posts: %w", err)
	}
	linkedinViews, err := store.SumLinkedInViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum linkedin views: %w", err)
	}
	twitterViews, err := store.SumTwitterViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum twitter views: %w", err)
	}

	return &Summary{
		LinkedInPosts:      linkedinCount,
		TwitterPosts:       twitterCount,
		TotalLinkedInViews: linkedinViews,
		TotalTwitterViews:  twitterViews,
		TotalPosts:         linkedinCount + twitterCount,
		TotalViews:         linkedinViews + twitterViews,
	}, nil
}

// DailyViews is one point of the per-day per-platform view series.
type DailyViews struct {
	Date     time.Time `json:"date"`
	Platform string    `json:"platform"`
	Views    int64     `json:"views"`
}

// ViewsByDay reshapes raw posts into per-day view totals per platform,
// ordered by date then platform. Used as a chart fallback when no daily
// impression aggregates have been recorded. Posts without a date are
// skipped.
func ViewsByDay(linkedin []model.LinkedInPost, twitter []model.TwitterPost) []DailyViews {
	type key struct {
		date     time.Time
		platform string
	}
	totals := make(map[key]int64)
	for i := range linkedin {
		p := &linkedin[i]
		if p.DatePosted.IsZero() {
			continue
		}
		k := key{date: day(p.DatePosted), platform: PlatformLinkedIn}
		totals[k] += p.Views
	}
	for i := range twitter {
		p := &twitter[i]
		if p.DatePosted.IsZero() {
			continue
		}
		k := key{date: day(p.DatePosted), platform: PlatformTwitter}
		totals[k] += p.Views
	}

	series := make([]DailyViews, 0, len(totals))
	for k, v := range totals {
		series = append(series, DailyViews{Date: k.date, Platform: k.platform, Views: v})
	}
	sort.Slice(series, func(i, j int) bool {
		if !series[i].Date.Equal(series[j].Date) {
			return series[i].Date.Before(series[j].Date)
		}
		return series[i].Platform < series[j].Platform
	})
	return series
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Snippet truncates s to at most n runes, appending "..." when shortened.
func Snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
