package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"social_dashboard/internal/draft"
	"social_dashboard/internal/inspiration"
	"social_dashboard/internal/model"
	"social_dashboard/internal/notify"
	"social_dashboard/internal/report"
	"social_dashboard/internal/scraper"
	"social_dashboard/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type linkedInPostJSON struct {
	PostID     string    `json:"post_id"`
	URL        string    `json:"url"`
	Content    string    `json:"content"`
	DatePosted time.Time `json:"date_posted"`
	Views      int64     `json:"views"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	Reposts    int       `json:"reposts"`
	ScrapedAt  time.Time `json:"scraped_at"`
}

type twitterPostJSON struct {
	TweetID    string    `json:"tweet_id"`
	URL        string    `json:"url"`
	Content    string    `json:"content"`
	DatePosted time.Time `json:"date_posted"`
	Views      int64     `json:"views"`
	Likes      int       `json:"likes"`
	Retweets   int       `json:"retweets"`
	Replies    int       `json:"replies"`
	Quotes     int       `json:"quotes"`
	ScrapedAt  time.Time `json:"scraped_at"`
}

type followerSnapshotJSON struct {
	Platform       string    `json:"platform"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type impressionsJSON struct {
	Platform         string    `json:"platform"`
	Date             time.Time `json:"date"`
	TotalImpressions int64     `json:"total_impressions"`
	TotalEngagements int       `json:"total_engagements"`
	RecordedAt       time.Time `json:"recorded_at"`
}

func (s *Server) getStats(c *gin.Context) {
	summary, err := report.StatsSummary(c.Request.Context(), s.store)
	if err != nil {
		s.fail(c, "stats summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getFollowers(c *gin.Context) {
	history, err := s.store.FollowerHistory(c.Request.Context(), c.Query("platform"))
	if err != nil {
		s.fail(c, "follower history", err)
		return
	}
	out := make([]followerSnapshotJSON, 0, len(history))
	for _, snap := range history {
		out = append(out, followerSnapshotJSON{
			Platform:       snap.Platform,
			FollowerCount:  snap.FollowerCount,
			FollowingCount: snap.FollowingCount,
			RecordedAt:     snap.RecordedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getImpressions(c *gin.Context) {
	ctx := c.Request.Context()
	history, err := s.store.ImpressionsHistory(ctx, c.Query("platform"))
	if err != nil {
		s.fail(c, "impressions history", err)
		return
	}

	if len(history) == 0 {
		// No recorded aggregates yet: derive per-day views from raw posts.
		linkedin, err := s.store.ListLinkedInPosts(ctx, 500)
		if err != nil {
			s.fail(c, "list linkedin posts", err)
			return
		}
		twitter, err := s.store.ListTwitterPosts(ctx, 500)
		if err != nil {
			s.fail(c, "list twitter posts", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"source": "posts",
			"series": report.ViewsByDay(linkedin, twitter),
		})
		return
	}

	out := make([]impressionsJSON, 0, len(history))
	for _, imp := range history {
		out = append(out, impressionsJSON{
			Platform:         imp.Platform,
			Date:             imp.Date,
			TotalImpressions: imp.TotalImpressions,
			TotalEngagements: imp.TotalEngagements,
			RecordedAt:       imp.RecordedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"source": "impressions", "series": out})
}

func (s *Server) getTopPosts(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	rows, err := report.CombinedTopPosts(c.Request.Context(), s.store, limit)
	if err != nil {
		s.fail(c, "combined top posts", err)
		return
	}
	if metric := c.Query("metric"); metric != "" && metric != "views" {
		report.SortCombined(rows, metric)
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) getLinkedInPosts(c *gin.Context) {
	posts, err := s.store.ListLinkedInPosts(c.Request.Context(), queryInt(c, "limit", 100))
	if err != nil {
		s.fail(c, "list linkedin posts", err)
		return
	}
	out := make([]linkedInPostJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, linkedInPostJSON{
			PostID: p.PostID, URL: p.URL, Content: p.Content, DatePosted: p.DatePosted,
			Views: p.Views, Likes: p.Likes, Comments: p.Comments, Reposts: p.Reposts,
			ScrapedAt: p.ScrapedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getTwitterPosts(c *gin.Context) {
	posts, err := s.store.ListTwitterPosts(c.Request.Context(), queryInt(c, "limit", 100))
	if err != nil {
		s.fail(c, "list twitter posts", err)
		return
	}
	out := make([]twitterPostJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, twitterPostJSON{
			TweetID: p.TweetID, URL: p.URL, Content: p.Content, DatePosted: p.DatePosted,
			Views: p.Views, Likes: p.Likes, Retweets: p.Retweets, Replies: p.Replies,
			Quotes: p.Quotes, ScrapedAt: p.ScrapedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listPipeline(c *gin.Context) {
	docs, err := s.mgr.ListPipelineItems(c.Request.Context(), model.PipelineStatus(c.Query("status")))
	if err != nil {
		s.fail(c, "list pipeline items", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (s *Server) addPipelineItem(c *gin.Context) {
	var body struct {
		Title       string `json:"title" binding:"required"`
		OriginalURL string `json:"original_url"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	doc, err := s.mgr.AddPipelineItem(c.Request.Context(), body.Title, body.OriginalURL, model.PipelineStatus(body.Status))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) updatePipelineStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !model.ValidPipelineStatus(model.PipelineStatus(body.Status)) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown status " + body.Status})
		return
	}
	err := s.mgr.UpdatePipelineStatus(c.Request.Context(), c.Param("id"), model.PipelineStatus(body.Status))
	s.updateResult(c, "update pipeline status", err)
}

func (s *Server) updatePipelineDraft(c *gin.Context) {
	var body struct {
		Draft string `json:"draft" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := s.mgr.UpdatePipelineDraft(c.Request.Context(), c.Param("id"), body.Draft)
	s.updateResult(c, "update pipeline draft", err)
}

func (s *Server) listCalendar(c *gin.Context) {
	var hasDraft *bool
	if raw := c.Query("has_draft"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid has_draft value"})
			return
		}
		hasDraft = &v
	}
	docs, err := s.mgr.ListCalendarItems(c.Request.Context(), hasDraft)
	if err != nil {
		s.fail(c, "list calendar items", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (s *Server) addCalendarItem(c *gin.Context) {
	var body struct {
		Topic         string `json:"topic" binding:"required"`
		ScheduledDate string `json:"scheduled_date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var scheduled *time.Time
	if body.ScheduledDate != "" {
		t, err := time.Parse("2006-01-02", body.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid scheduled_date, expected YYYY-MM-DD"})
			return
		}
		scheduled = &t
	}
	doc, err := s.mgr.AddCalendarItem(c.Request.Context(), body.Topic, scheduled)
	if err != nil {
		s.fail(c, "add calendar item", err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) updateCalendarDraft(c *gin.Context) {
	var body struct {
		Draft string `json:"draft" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := s.mgr.UpdateCalendarDraft(c.Request.Context(), c.Param("id"), body.Draft)
	s.updateResult(c, "update calendar draft", err)
}

// refresh runs both scrapers synchronously. A failing platform is reported
// inline and counts as zero records; the other platform still runs.
func (s *Server) refresh(c *gin.Context) {
	if s.cfg.ApifyToken == "" {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Apify token not configured"})
		return
	}

	ctx := c.Request.Context()
	client := scraper.NewClient(s.httpClient, s.cfg.ApifyToken)

	result := gin.H{}
	var problems []string

	linkedin := scraper.NewLinkedIn(client, s.cfg.LinkedInProfileURL, s.store, s.log)
	var linkedinSaved int
	posts, err := linkedin.ScrapePosts(ctx, s.cfg.ScrapeLimit)
	if err == nil {
		linkedinSaved, err = linkedin.SaveToDatabase(ctx, posts)
	}
	if err != nil {
		s.log.Error("linkedin refresh", "error", err)
		problems = append(problems, "linkedin: "+err.Error())
	}
	result["linkedin_saved"] = linkedinSaved

	twitter := scraper.NewTwitter(client, s.cfg.TwitterUsername, s.store, s.log)
	var twitterSaved int
	tweets, err := twitter.ScrapeTweets(ctx, s.cfg.ScrapeLimit)
	if err == nil {
		twitterSaved, err = twitter.SaveToDatabase(ctx, tweets)
	}
	if err != nil {
		s.log.Error("twitter refresh", "error", err)
		problems = append(problems, "twitter: "+err.Error())
	}
	result["twitter_saved"] = twitterSaved

	if len(problems) > 0 {
		result["errors"] = problems
	}
	c.JSON(http.StatusOK, result)
}

// generate drafts tweets for all calendar items that have none yet.
func (s *Server) generate(c *gin.Context) {
	gen, err := draft.NewGenerator(s.httpClient, s.cfg.AnthropicAPIKey)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	var notifier draft.Notifier
	if s.cfg.NotifyEnabled() {
		tg, err := notify.New(s.cfg.TelegramBotToken, s.cfg.TelegramChatID, s.log)
		if err != nil {
			s.log.Error("create notifier", "error", err)
		} else {
			notifier = tg
		}
	}

	processed, err := draft.ProcessCalendar(c.Request.Context(), s.mgr, gen, notifier, false, s.log)
	if err != nil {
		s.fail(c, "process calendar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

func (s *Server) importInspiration(c *gin.Context) {
	feedURL := c.Query("feed")
	if feedURL == "" {
		feedURL = s.cfg.InspirationFeedURL
	}
	if feedURL == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "no feed URL configured"})
		return
	}

	importer := inspiration.New(s.httpClient, s.mgr, s.log)
	added, err := importer.Import(c.Request.Context(), feedURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": added})
}

func (s *Server) updateResult(c *gin.Context, op string, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"updated": true})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "item not found"})
	default:
		s.fail(c, op, err)
	}
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	s.log.Error(op, "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
