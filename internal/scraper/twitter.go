package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"social_dashboard/internal/model"
	"social_dashboard/internal/storage"
)

const actorTweetScraper = "apidojo~tweet-scraper"

// Twitter scrapes tweets and profile stats for one account.
type Twitter struct {
	client   *Client
	username string
	store    storage.Storage
	log      *slog.Logger
}

// NewTwitter creates a Twitter scraper for the given handle. A leading "@"
// is stripped.
func NewTwitter(client *Client, username string, store storage.Storage, log *slog.Logger) *Twitter {
	return &Twitter{
		client:   client,
		username: strings.TrimPrefix(username, "@"),
		store:    store,
		log:      log,
	}
}

// rawTweet carries the field-name variants different actors emit.
type rawTweet struct {
	ID            flexID     `json:"id"`
	TweetID       flexID     `json:"tweetId"`
	URL           string     `json:"url"`
	Text          string     `json:"text"`
	FullText      string     `json:"fullText"`
	CreatedAt     string     `json:"createdAt"`
	Date          string     `json:"date"`
	ViewCount     int64      `json:"viewCount"`
	Views         int64      `json:"views"`
	LikeCount     int64      `json:"likeCount"`
	FavoriteCount int64      `json:"favoriteCount"`
	RetweetCount  int64      `json:"retweetCount"`
	Retweets      int64      `json:"retweets"`
	ReplyCount    int64      `json:"replyCount"`
	Replies       int64      `json:"replies"`
	QuoteCount    int64      `json:"quoteCount"`
	Quotes        int64      `json:"quotes"`
	Author        *rawAuthor `json:"author"`
}

type rawAuthor struct {
	FollowersCount int64 `json:"followersCount"`
	Followers      int64 `json:"followers"`
	FollowingCount int64 `json:"followingCount"`
	Following      int64 `json:"following"`
}

// ScrapeTweets runs the tweet-scraper actor and returns normalized records.
func (s *Twitter) ScrapeTweets(ctx context.Context, maxTweets int) ([]model.TwitterPost, error) {
	if s.username == "" {
		return nil, fmt.Errorf("twitter username not configured")
	}

	input := map[string]any{
		"handles":         []string{s.username},
		"maxTweets":       maxTweets,
		"includeReplies":  false,
		"includeRetweets": false,
	}
	items, err := s.client.RunActor(ctx, actorTweetScraper, input)
	if err != nil {
		return nil, fmt.Errorf("scrape tweets: %w", err)
	}

	tweets := make([]model.TwitterPost, 0, len(items))
	for _, item := range items {
		var raw rawTweet
		if err := json.Unmarshal(item, &raw); err != nil {
			s.log.Warn("skip malformed tweet item", "error", err)
			continue
		}
		tweets = append(tweets, s.normalizeTweet(raw))
	}
	return tweets, nil
}

func (s *Twitter) normalizeTweet(raw rawTweet) model.TwitterPost {
	id := firstNonEmpty(raw.ID.String(), raw.TweetID.String())
	url := raw.URL
	if url == "" && id != "" {
		url = fmt.Sprintf("https://twitter.com/%s/status/%s", s.username, id)
	}
	return model.TwitterPost{
		TweetID:    id,
		URL:        url,
		Content:    firstNonEmpty(raw.Text, raw.FullText),
		DatePosted: parsePostDate(firstNonEmpty(raw.CreatedAt, raw.Date)),
		Views:      firstPositive(raw.ViewCount, raw.Views),
		Likes:      int(firstPositive(raw.LikeCount, raw.FavoriteCount)),
		Retweets:   int(firstPositive(raw.RetweetCount, raw.Retweets)),
		Replies:    int(firstPositive(raw.ReplyCount, raw.Replies)),
		Quotes:     int(firstPositive(raw.QuoteCount, raw.Quotes)),
	}
}

// ScrapeProfileStats fetches follower and following counts from the
// account's author metadata.
func (s *Twitter) ScrapeProfileStats(ctx context.Context) (followers, following int, err error) {
	input := map[string]any{
		"handles":   []string{s.username},
		"maxTweets": 1,
	}
	items, err := s.client.RunActor(ctx, actorTweetScraper, input)
	if err != nil {
		return 0, 0, fmt.Errorf("scrape twitter profile: %w", err)
	}

	for _, item := range items {
		var raw rawTweet
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		if raw.Author == nil {
			continue
		}
		return int(firstPositive(raw.Author.FollowersCount, raw.Author.Followers)),
			int(firstPositive(raw.Author.FollowingCount, raw.Author.Following)), nil
	}
	return 0, 0, nil
}

// SaveToDatabase upserts the given tweets (scraping first when tweets is
// nil) and records one follower snapshot. Individual record failures are
// logged and skipped. Returns the number of tweets saved.
func (s *Twitter) SaveToDatabase(ctx context.Context, tweets []model.TwitterPost) (int, error) {
	if tweets == nil {
		var err error
		tweets, err = s.ScrapeTweets(ctx, defaultScrapeLimit)
		if err != nil {
			return 0, err
		}
	}

	saved := 0
	for i := range tweets {
		if err := s.store.UpsertTwitterPost(ctx, &tweets[i]); err != nil {
			s.log.Error("save tweet", "tweet_id", tweets[i].TweetID, "error", err)
			continue
		}
		saved++
	}

	followers, following, err := s.ScrapeProfileStats(ctx)
	if err != nil {
		s.log.Error("scrape twitter profile stats", "error", err)
	} else if err := s.store.AddFollowerSnapshot(ctx, model.PlatformTwitter, followers, following); err != nil {
		s.log.Error("save twitter follower snapshot", "error", err)
	}

	return saved, nil
}
