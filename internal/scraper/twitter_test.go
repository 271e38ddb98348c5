package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"social_dashboard/internal/model"
)

func TestNormalizeTweet(t *testing.T) {
	s := &Twitter{username: "someone"}

	tests := []struct {
		name string
		raw  rawTweet
		want model.TwitterPost
	}{
		{
			name: "primary field names",
			raw: rawTweet{
				ID: "100", URL: "https://twitter.com/someone/status/100", Text: "hello",
				CreatedAt: "2024-03-01T10:00:00Z",
				ViewCount: 90, LikeCount: 20, RetweetCount: 10, ReplyCount: 3, QuoteCount: 1,
			},
			want: model.TwitterPost{
				TweetID: "100", URL: "https://twitter.com/someone/status/100", Content: "hello",
				DatePosted: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				Views:      90, Likes: 20, Retweets: 10, Replies: 3, Quotes: 1,
			},
		},
		{
			name: "alternate names and url fallback",
			raw: rawTweet{
				TweetID: "200", FullText: "alt text",
				Date:  "2024-03-02",
				Views: 40, FavoriteCount: 2, Retweets: 1, Replies: 1, Quotes: 1,
			},
			want: model.TwitterPost{
				TweetID: "200", URL: "https://twitter.com/someone/status/200", Content: "alt text",
				DatePosted: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
				Views:      40, Likes: 2, Retweets: 1, Replies: 1, Quotes: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.normalizeTweet(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewTwitterStripsAt(t *testing.T) {
	s := NewTwitter(NewClient(&mockTransport{}, "tok"), "@someone", newTestStore(t), discardLogger())
	if s.username != "someone" {
		t.Errorf("expected handle without @, got %q", s.username)
	}
}

func TestTwitterScrapeProfileStats(t *testing.T) {
	transport := &mockTransport{responses: map[string]string{
		"tweet-scraper": `[{"id": "1", "text": "t", "author": {"followersCount": 1200, "followingCount": 340}}]`,
	}}
	s := NewTwitter(NewClient(transport, "tok"), "someone", newTestStore(t), discardLogger())

	followers, following, err := s.ScrapeProfileStats(context.Background())
	if err != nil {
		t.Fatalf("profile stats: %v", err)
	}
	if followers != 1200 || following != 340 {
		t.Errorf("expected 1200/340, got %d/%d", followers, following)
	}
}

func TestTwitterSaveToDatabase(t *testing.T) {
	transport := &mockTransport{responses: map[string]string{
		"tweet-scraper": `[
			{"id": "100", "text": "tweet one", "createdAt": "2024-03-01T09:00:00Z", "viewCount": 90, "likeCount": 20, "author": {"followers": 1000, "following": 200}},
			{"id": "101", "text": "tweet two", "createdAt": "2024-03-02T09:00:00Z", "viewCount": 40}
		]`,
	}}
	store := newTestStore(t)
	s := NewTwitter(NewClient(transport, "tok"), "someone", store, discardLogger())

	ctx := context.Background()
	saved, err := s.SaveToDatabase(ctx, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != 2 {
		t.Fatalf("expected 2 saved tweets, got %d", saved)
	}

	n, err := store.CountTwitterPosts(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 stored tweets, got %d", n)
	}

	snaps, err := store.FollowerHistory(ctx, model.PlatformTwitter)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].FollowerCount != 1000 || snaps[0].FollowingCount != 200 {
		t.Errorf("unexpected snapshot: %+v", snaps[0])
	}
}
