package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"

	"social_dashboard/internal/model"
	"social_dashboard/internal/storage"
)

// Apify actor ids used for LinkedIn scraping.
const (
	actorLinkedInPosts   = "curious_coder~linkedin-post-scraper"
	actorLinkedInProfile = "anchor~linkedin-profile-scraper"
)

// LinkedIn scrapes posts and profile stats for one LinkedIn profile.
type LinkedIn struct {
	client     *Client
	profileURL string
	store      storage.Storage
	log        *slog.Logger
}

// NewLinkedIn creates a LinkedIn scraper for the given profile URL.
func NewLinkedIn(client *Client, profileURL string, store storage.Storage, log *slog.Logger) *LinkedIn {
	return &LinkedIn{
		client:     client,
		profileURL: profileURL,
		store:      store,
		log:        log,
	}
}

// rawLinkedInPost carries the field-name variants different actors emit.
type rawLinkedInPost struct {
	PostID       flexID `json:"postId"`
	ID           flexID `json:"id"`
	PostURL      string `json:"postUrl"`
	URL          string `json:"url"`
	Text         string `json:"text"`
	Content      string `json:"content"`
	PostedAt     string `json:"postedAt"`
	Date         string `json:"date"`
	Views        int64  `json:"views"`
	Impressions  int64  `json:"impressions"`
	Likes        int64  `json:"likes"`
	Reactions    int64  `json:"reactions"`
	Comments     int64  `json:"comments"`
	CommentCount int64  `json:"commentCount"`
	Reposts      int64  `json:"reposts"`
	Shares       int64  `json:"shares"`
}

// rawLinkedInProfile carries the profile-stat field variants.
type rawLinkedInProfile struct {
	FollowersCount   int64 `json:"followersCount"`
	Followers        int64 `json:"followers"`
	ConnectionsCount int64 `json:"connectionsCount"`
	Connections      int64 `json:"connections"`
}

// ScrapePosts runs the post-scraper actor and returns normalized records.
func (s *LinkedIn) ScrapePosts(ctx context.Context, maxPosts int) ([]model.LinkedInPost, error) {
	if s.profileURL == "" {
		return nil, fmt.Errorf("linkedin profile URL not configured")
	}

	input := map[string]any{
		"profileUrls":    []string{s.profileURL},
		"maxPosts":       maxPosts,
		"includeMetrics": true,
	}
	items, err := s.client.RunActor(ctx, actorLinkedInPosts, input)
	if err != nil {
		return nil, fmt.Errorf("scrape linkedin posts: %w", err)
	}

	posts := make([]model.LinkedInPost, 0, len(items))
	for _, item := range items {
		var raw rawLinkedInPost
		if err := json.Unmarshal(item, &raw); err != nil {
			s.log.Warn("skip malformed linkedin item", "error", err)
			continue
		}
		posts = append(posts, normalizeLinkedInPost(raw))
	}
	return posts, nil
}

func normalizeLinkedInPost(raw rawLinkedInPost) model.LinkedInPost {
	content := firstNonEmpty(raw.Text, raw.Content)
	postID := firstNonEmpty(raw.PostID.String(), raw.ID.String())
	if postID == "" {
		postID = contentHashID(content)
	}
	return model.LinkedInPost{
		PostID:     postID,
		URL:        firstNonEmpty(raw.PostURL, raw.URL),
		Content:    content,
		DatePosted: parsePostDate(firstNonEmpty(raw.PostedAt, raw.Date)),
		Views:      firstPositive(raw.Views, raw.Impressions),
		Likes:      int(firstPositive(raw.Likes, raw.Reactions)),
		Comments:   int(firstPositive(raw.Comments, raw.CommentCount)),
		Reposts:    int(firstPositive(raw.Reposts, raw.Shares)),
	}
}

// contentHashID derives a stable identifier for posts whose actor output
// carries no id of its own.
func contentHashID(content string) string {
	prefix := []rune(content)
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}
	h := sha256.Sum256([]byte(string(prefix)))
	return fmt.Sprintf("sha256:%x", h[:16])
}

// ScrapeProfileStats fetches the profile's follower and connection counts.
func (s *LinkedIn) ScrapeProfileStats(ctx context.Context) (followers, connections int, err error) {
	input := map[string]any{
		"profileUrls":       []string{s.profileURL},
		"scrapeCompanyData": false,
	}
	items, err := s.client.RunActor(ctx, actorLinkedInProfile, input)
	if err != nil {
		return 0, 0, fmt.Errorf("scrape linkedin profile: %w", err)
	}

	for _, item := range items {
		var raw rawLinkedInProfile
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		return int(firstPositive(raw.FollowersCount, raw.Followers)),
			int(firstPositive(raw.ConnectionsCount, raw.Connections)), nil
	}
	return 0, 0, nil
}

// SaveToDatabase upserts the given posts (scraping first when posts is nil)
// and records one follower snapshot. Individual record failures are logged
// and skipped so one bad record does not abort the batch. Returns the
// number of posts saved.
func (s *LinkedIn) SaveToDatabase(ctx context.Context, posts []model.LinkedInPost) (int, error) {
	if posts == nil {
		var err error
		posts, err = s.ScrapePosts(ctx, defaultScrapeLimit)
		if err != nil {
			return 0, err
		}
	}

	saved := 0
	for i := range posts {
		if err := s.store.UpsertLinkedInPost(ctx, &posts[i]); err != nil {
			s.log.Error("save linkedin post", "post_id", posts[i].PostID, "error", err)
			continue
		}
		saved++
	}

	followers, connections, err := s.ScrapeProfileStats(ctx)
	if err != nil {
		s.log.Error("scrape linkedin profile stats", "error", err)
	} else if err := s.store.AddFollowerSnapshot(ctx, model.PlatformLinkedIn, followers, connections); err != nil {
		s.log.Error("save linkedin follower snapshot", "error", err)
	}

	return saved, nil
}
