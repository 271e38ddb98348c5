package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"social_dashboard/internal/model"
	"social_dashboard/internal/storage"
)

func newTestDB(t *testing.T) *storage.SQLite {
	t.Helper()
	s, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCombinedTopPosts(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	posted := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p1 := model.LinkedInPost{
		PostID: "p1", URL: "https://linkedin.com/p1", Content: "linkedin winner",
		DatePosted: posted, Views: 100, Likes: 5, Comments: 2, Reposts: 1,
	}
	if err := s.UpsertLinkedInPost(ctx, &p1); err != nil {
		t.Fatalf("insert linkedin: %v", err)
	}
	t1 := model.TwitterPost{
		TweetID: "t1", URL: "https://twitter.com/t1", Content: "twitter runner-up",
		DatePosted: posted, Views: 90, Likes: 20, Retweets: 10, Replies: 3, Quotes: 1,
	}
	if err := s.UpsertTwitterPost(ctx, &t1); err != nil {
		t.Fatalf("insert twitter: %v", err)
	}

	got, err := CombinedTopPosts(ctx, s, 10)
	if err != nil {
		t.Fatalf("combined: %v", err)
	}

	want := []CombinedPost{
		{Platform: PlatformLinkedIn, Content: "linkedin winner", URL: "https://linkedin.com/p1", Views: 100, Likes: 5, Date: posted, Engagement: 8},
		{Platform: PlatformTwitter, Content: "twitter runner-up", URL: "https://twitter.com/t1", Views: 90, Likes: 20, Date: posted, Engagement: 34},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leaderboard mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinedTopPostsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	for i, views := range []int64{500, 400, 300} {
		p := model.LinkedInPost{PostID: string(rune('a' + i)), Views: views}
		if err := s.UpsertLinkedInPost(ctx, &p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	tw := model.TwitterPost{TweetID: "t", Views: 450}
	if err := s.UpsertTwitterPost(ctx, &tw); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := CombinedTopPosts(ctx, s, 2)
	if err != nil {
		t.Fatalf("combined: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Views != 500 || got[1].Views != 450 {
		t.Errorf("unexpected ranking: %d, %d", got[0].Views, got[1].Views)
	}
}

func TestSortCombined(t *testing.T) {
	rows := func() []CombinedPost {
		return []CombinedPost{
			{URL: "a", Views: 100, Likes: 1, Engagement: 8},
			{URL: "b", Views: 90, Likes: 20, Engagement: 34},
		}
	}

	tests := []struct {
		name   string
		metric string
		want   []string
	}{
		{name: "engagement", metric: "engagement", want: []string{"b", "a"}},
		{name: "likes", metric: "likes", want: []string{"b", "a"}},
		{name: "views", metric: "views", want: []string{"a", "b"}},
		{name: "unknown falls back to views", metric: "reposts", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rows()
			SortCombined(r, tt.metric)
			var got []string
			for _, row := range r {
				got = append(got, row.URL)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatsSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	// Empty database yields all zeros.
	got, err := StatsSummary(ctx, s)
	if err != nil {
		t.Fatalf("summary empty: %v", err)
	}
	if diff := cmp.Diff(&Summary{}, got); diff != "" {
		t.Errorf("empty summary mismatch (-want +got):\n%s", diff)
	}

	p := model.LinkedInPost{PostID: "p", Views: 100}
	if err := s.UpsertLinkedInPost(ctx, &p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for i, views := range []int64{50, 30} {
		tw := model.TwitterPost{TweetID: string(rune('a' + i)), Views: views}
		if err := s.UpsertTwitterPost(ctx, &tw); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err = StatsSummary(ctx, s)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := &Summary{
		LinkedInPosts:      1,
		TwitterPosts:       2,
		TotalLinkedInViews: 100,
		TotalTwitterViews:  80,
		TotalPosts:         3,
		TotalViews:         180,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestViewsByDay(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)

	linkedin := []model.LinkedInPost{
		{PostID: "a", DatePosted: day1, Views: 100},
		{PostID: "b", DatePosted: day1.Add(2 * time.Hour), Views: 50},
		{PostID: "undated", Views: 999},
	}
	twitter := []model.TwitterPost{
		{TweetID: "t1", DatePosted: day2, Views: 70},
	}

	got := ViewsByDay(linkedin, twitter)

	want := []DailyViews{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Platform: PlatformLinkedIn, Views: 150},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Platform: PlatformTwitter, Views: 70},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short string unchanged", in: "hello", n: 100, want: "hello"},
		{name: "exact length unchanged", in: "abcde", n: 5, want: "abcde"},
		{name: "long string truncated", in: strings.Repeat("x", 120), n: 100, want: strings.Repeat("x", 100) + "..."},
		{name: "multibyte runes", in: "héllo wörld", n: 5, want: "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet(tt.in, tt.n); got != tt.want {
				t.Errorf("Snippet(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
