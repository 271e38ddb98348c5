package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"social_dashboard/internal/model"
	"social_dashboard/migrations"
)

const (
	timeLayout = "2006-01-02T15:04:05Z"
	dateLayout = "2006-01-02"
)

// Connection pool bounds. These exist for connection-limit hygiene on
// hosted databases, not for correctness.
const (
	maxOpenConns    = 15
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// UpsertLinkedInPost inserts a post or, if its external id is already known,
// merges the new values into the existing row and refreshes scraped_at.
func (s *SQLite) UpsertLinkedInPost(ctx context.Context, post *model.LinkedInPost) error {
	if post.PostID == "" {
		return fmt.Errorf("linkedin post: post id is required")
	}

	now := time.Now().UTC().Truncate(time.Second)

	existing, err := s.getLinkedInPost(ctx, post.PostID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup linkedin post: %w", err)
	}

	if existing != nil {
		merged := mergeLinkedInPost(existing, post)
		merged.ScrapedAt = now
		_, err := s.db.ExecContext(ctx,
			`UPDATE linkedin_posts
			 SET url = ?, content = ?, date_posted = ?, views = ?, likes = ?, comments = ?, reposts = ?, scraped_at = ?
			 WHERE post_id = ?`,
			merged.URL, merged.Content, nullTime(merged.DatePosted),
			merged.Views, merged.Likes, merged.Comments, merged.Reposts,
			merged.ScrapedAt.Format(timeLayout), post.PostID,
		)
		if err != nil {
			return fmt.Errorf("update linkedin post: %w", err)
		}
		*post = *merged
		return nil
	}

	post.ScrapedAt = now
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO linkedin_posts (post_id, url, content, date_posted, views, likes, comments, reposts, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.PostID, post.URL, post.Content, nullTime(post.DatePosted),
		post.Views, post.Likes, post.Comments, post.Reposts,
		post.ScrapedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert linkedin post: %w", err)
	}
	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

// mergeLinkedInPost applies incoming values onto an existing row. Text and
// date fields only overwrite when set; counters always overwrite.
func mergeLinkedInPost(existing, incoming *model.LinkedInPost) *model.LinkedInPost {
	merged := *existing
	if incoming.URL != "" {
		merged.URL = incoming.URL
	}
	if incoming.Content != "" {
		merged.Content = incoming.Content
	}
	if !incoming.DatePosted.IsZero() {
		merged.DatePosted = incoming.DatePosted
	}
	merged.Views = incoming.Views
	merged.Likes = incoming.Likes
	merged.Comments = incoming.Comments
	merged.Reposts = incoming.Reposts
	return &merged
}

func (s *SQLite) getLinkedInPost(ctx context.Context, postID string) (*model.LinkedInPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, post_id, url, content, date_posted, views, likes, comments, reposts, scraped_at
		 FROM linkedin_posts WHERE post_id = ?`, postID,
	)
	p, err := scanLinkedInPost(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListLinkedInPosts returns posts ordered most-recent-first by post date.
func (s *SQLite) ListLinkedInPosts(ctx context.Context, limit int) ([]model.LinkedInPost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, post_id, url, content, date_posted, views, likes, comments, reposts, scraped_at
		 FROM linkedin_posts ORDER BY date_posted DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query linkedin posts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanLinkedInPosts(rows)
}

var linkedInMetricColumns = map[string]string{
	"views":    "views",
	"likes":    "likes",
	"comments": "comments",
	"reposts":  "reposts",
}

// TopLinkedInPosts returns posts ordered descending by the named metric.
// Unrecognized metric names fall back to views.
func (s *SQLite) TopLinkedInPosts(ctx context.Context, metric string, limit int) ([]model.LinkedInPost, error) {
	col, ok := linkedInMetricColumns[metric]
	if !ok {
		col = "views"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, post_id, url, content, date_posted, views, likes, comments, reposts, scraped_at
		 FROM linkedin_posts ORDER BY `+col+` DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top linkedin posts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanLinkedInPosts(rows)
}

// CountLinkedInPosts returns the total number of stored LinkedIn posts.
func (s *SQLite) CountLinkedInPosts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM linkedin_posts`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count linkedin posts: %w", err)
	}
	return n, nil
}

// SumLinkedInViews returns the summed view count across all LinkedIn posts.
func (s *SQLite) SumLinkedInViews(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(views), 0) FROM linkedin_posts`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum linkedin views: %w", err)
	}
	return total, nil
}

// UpsertTwitterPost inserts a tweet or merges it into the existing row
// keyed by its external id, refreshing scraped_at.
func (s *SQLite) UpsertTwitterPost(ctx context.Context, post *model.TwitterPost) error {
	if post.TweetID == "" {
		return fmt.Errorf("twitter post: tweet id is required")
	}

	now := time.Now().UTC().Truncate(time.Second)

	existing, err := s.getTwitterPost(ctx, post.TweetID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup twitter post: %w", err)
	}

	if existing != nil {
		merged := mergeTwitterPost(existing, post)
		merged.ScrapedAt = now
		_, err := s.db.ExecContext(ctx,
			`UPDATE twitter_posts
			 SET url = ?, content = ?, date_posted = ?, views = ?, likes = ?, retweets = ?, replies = ?, quotes = ?, scraped_at = ?
			 WHERE tweet_id = ?`,
			merged.URL, merged.Content, nullTime(merged.DatePosted),
			merged.Views, merged.Likes, merged.Retweets, merged.Replies, merged.Quotes,
			merged.ScrapedAt.Format(timeLayout), post.TweetID,
		)
		if err != nil {
			return fmt.Errorf("update twitter post: %w", err)
		}
		*post = *merged
		return nil
	}

	post.ScrapedAt = now
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO twitter_posts (tweet_id, url, content, date_posted, views, likes, retweets, replies, quotes, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.TweetID, post.URL, post.Content, nullTime(post.DatePosted),
		post.Views, post.Likes, post.Retweets, post.Replies, post.Quotes,
		post.ScrapedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert twitter post: %w", err)
	}
	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

func mergeTwitterPost(existing, incoming *model.TwitterPost) *model.TwitterPost {
	merged := *existing
	if incoming.URL != "" {
		merged.URL = incoming.URL
	}
	if incoming.Content != "" {
		merged.Content = incoming.Content
	}
	if !incoming.DatePosted.IsZero() {
		merged.DatePosted = incoming.DatePosted
	}
	merged.Views = incoming.Views
	merged.Likes = incoming.Likes
	merged.Retweets = incoming.Retweets
	merged.Replies = incoming.Replies
	merged.Quotes = incoming.Quotes
	return &merged
}

func (s *SQLite) getTwitterPost(ctx context.Context, tweetID string) (*model.TwitterPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tweet_id, url, content, date_posted, views, likes, retweets, replies, quotes, scraped_at
		 FROM twitter_posts WHERE tweet_id = ?`, tweetID,
	)
	p, err := scanTwitterPost(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListTwitterPosts returns tweets ordered most-recent-first by post date.
func (s *SQLite) ListTwitterPosts(ctx context.Context, limit int) ([]model.TwitterPost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tweet_id, url, content, date_posted, views, likes, retweets, replies, quotes, scraped_at
		 FROM twitter_posts ORDER BY date_posted DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query twitter posts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTwitterPosts(rows)
}

var twitterMetricColumns = map[string]string{
	"views":    "views",
	"likes":    "likes",
	"retweets": "retweets",
	"replies":  "replies",
	"quotes":   "quotes",
}

// TopTwitterPosts returns tweets ordered descending by the named metric.
// Unrecognized metric names fall back to views.
func (s *SQLite) TopTwitterPosts(ctx context.Context, metric string, limit int) ([]model.TwitterPost, error) {
	col, ok := twitterMetricColumns[metric]
	if !ok {
		col = "views"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tweet_id, url, content, date_posted, views, likes, retweets, replies, quotes, scraped_at
		 FROM twitter_posts ORDER BY `+col+` DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top twitter posts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTwitterPosts(rows)
}

// CountTwitterPosts returns the total number of stored tweets.
func (s *SQLite) CountTwitterPosts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM twitter_posts`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count twitter posts: %w", err)
	}
	return n, nil
}

// SumTwitterViews returns the summed view count across all tweets.
func (s *SQLite) SumTwitterViews(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(views), 0) FROM twitter_posts`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum twitter views: %w", err)
	}
	return total, nil
}

// AddFollowerSnapshot appends a follower count record. No deduplication:
// the snapshot table is a plain time series.
func (s *SQLite) AddFollowerSnapshot(ctx context.Context, platform string, followers, following int) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO follower_snapshots (platform, follower_count, following_count, recorded_at)
		 VALUES (?, ?, ?, ?)`,
		platform, followers, following, now,
	)
	if err != nil {
		return fmt.Errorf("insert follower snapshot: %w", err)
	}
	return nil
}

// FollowerHistory returns all snapshots most-recent-first, optionally
// filtered to one platform. An empty platform means all platforms.
func (s *SQLite) FollowerHistory(ctx context.Context, platform string) ([]model.FollowerSnapshot, error) {
	query := `SELECT id, platform, follower_count, following_count, recorded_at
		 FROM follower_snapshots`
	var args []any
	if platform != "" {
		query += ` WHERE platform = ?`
		args = append(args, platform)
	}
	query += ` ORDER BY recorded_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query follower history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []model.FollowerSnapshot
	for rows.Next() {
		var snap model.FollowerSnapshot
		var recorded string
		if err := rows.Scan(&snap.ID, &snap.Platform, &snap.FollowerCount, &snap.FollowingCount, &recorded); err != nil {
			return nil, fmt.Errorf("scan follower snapshot: %w", err)
		}
		snap.RecordedAt, _ = time.Parse(timeLayout, recorded)
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// AddDailyImpressions appends a daily impression aggregate. No deduplication.
func (s *SQLite) AddDailyImpressions(ctx context.Context, platform string, date time.Time, impressions int64, engagements int) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_impressions (platform, date, total_impressions, total_engagements, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		platform, date.UTC().Format(dateLayout), impressions, engagements, now,
	)
	if err != nil {
		return fmt.Errorf("insert daily impressions: %w", err)
	}
	return nil
}

// ImpressionsHistory returns all impression aggregates most-recent-first,
// optionally filtered to one platform.
func (s *SQLite) ImpressionsHistory(ctx context.Context, platform string) ([]model.DailyImpressions, error) {
	query := `SELECT id, platform, date, total_impressions, total_engagements, recorded_at
		 FROM daily_impressions`
	var args []any
	if platform != "" {
		query += ` WHERE platform = ?`
		args = append(args, platform)
	}
	query += ` ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query impressions history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []model.DailyImpressions
	for rows.Next() {
		var imp model.DailyImpressions
		var date, recorded string
		if err := rows.Scan(&imp.ID, &imp.Platform, &date, &imp.TotalImpressions, &imp.TotalEngagements, &recorded); err != nil {
			return nil, fmt.Errorf("scan daily impressions: %w", err)
		}
		imp.Date, _ = time.Parse(dateLayout, date)
		imp.RecordedAt, _ = time.Parse(timeLayout, recorded)
		history = append(history, imp)
	}
	return history, rows.Err()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLinkedInPost(row scannable) (*model.LinkedInPost, error) {
	var p model.LinkedInPost
	var datePosted sql.NullString
	var url, content sql.NullString
	var scraped string
	err := row.Scan(&p.ID, &p.PostID, &url, &content, &datePosted,
		&p.Views, &p.Likes, &p.Comments, &p.Reposts, &scraped)
	if err != nil {
		return nil, err
	}
	p.URL = url.String
	p.Content = content.String
	if datePosted.Valid {
		p.DatePosted, _ = time.Parse(timeLayout, datePosted.String)
	}
	p.ScrapedAt, _ = time.Parse(timeLayout, scraped)
	return &p, nil
}

func scanLinkedInPosts(rows *sql.Rows) ([]model.LinkedInPost, error) {
	var posts []model.LinkedInPost
	for rows.Next() {
		p, err := scanLinkedInPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan linkedin post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func scanTwitterPost(row scannable) (*model.TwitterPost, error) {
	var p model.TwitterPost
	var datePosted sql.NullString
	var url, content sql.NullString
	var scraped string
	err := row.Scan(&p.ID, &p.TweetID, &url, &content, &datePosted,
		&p.Views, &p.Likes, &p.Retweets, &p.Replies, &p.Quotes, &scraped)
	if err != nil {
		return nil, err
	}
	p.URL = url.String
	p.Content = content.String
	if datePosted.Valid {
		p.DatePosted, _ = time.Parse(timeLayout, datePosted.String)
	}
	p.ScrapedAt, _ = time.Parse(timeLayout, scraped)
	return &p, nil
}

func scanTwitterPosts(rows *sql.Rows) ([]model.TwitterPost, error) {
	var posts []model.TwitterPost
	for rows.Next() {
		p, err := scanTwitterPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan twitter post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
