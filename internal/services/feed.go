package services

import (
	"fmt"
	"strconv"
	"time"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"
	"gather/internal/utils"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// How long a cached first page of a feed stays valid.
const feedHeadTTL = time.Minute

// FeedWindow restricts TOP ordering to items created within the window.
type FeedWindow int

const (
	WindowAllTime FeedWindow = iota
	WindowDay
	WindowWeek
	WindowMonth
	WindowYear
)

// ParseFeedWindow maps the API's window parameter; empty means all-time.
func ParseFeedWindow(s string) (FeedWindow, error) {
	switch s {
	case "", "all":
		return WindowAllTime, nil
	case "day":
		return WindowDay, nil
	case "week":
		return WindowWeek, nil
	case "month":
		return WindowMonth, nil
	case "year":
		return WindowYear, nil
	}
	return WindowAllTime, apperr.New(apperr.Validation, "window", "Invalid top window.")
}

// Since returns the lower bound of the window, or ok=false for all-time.
func (w FeedWindow) Since(now time.Time) (time.Time, bool) {
	switch w {
	case WindowDay:
		return now.AddDate(0, 0, -1), true
	case WindowWeek:
		return now.AddDate(0, 0, -7), true
	case WindowMonth:
		return now.AddDate(0, -1, 0), true
	case WindowYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// FeedPage is one page of ordered posts. NextCursor is the sort key of the
// last item and is only meaningful while HasMore is true.
type FeedPage struct {
	Posts      []models.Post `json:"posts"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// FeedFilter narrows a feed. CommunityID and CreatorID are exclusive in
// practice; ViewerID only matters for the home feed, where it restricts
// results to communities the viewer joined (global when none).
type FeedFilter struct {
	CommunityID    string
	CreatorID      string
	ViewerID       string
	IncludeRemoved bool
}

func (f FeedFilter) cacheKey(mode string) string {
	return fmt.Sprintf("feed:%s:c=%s:u=%s:v=%s", mode, f.CommunityID, f.CreatorID, f.ViewerID)
}

func baseFeedQuery(f FeedFilter) (*gorm.DB, error) {
	q := db.DB.Model(&models.Post{}).
		Preload("Creator").
		Preload("Community").
		Preload("Images").
		Where("kind <> ?", models.KindComment)

	if !f.IncludeRemoved {
		q = q.Where("status <> ?", models.StatusRemoved)
	}
	if f.CommunityID != "" {
		q = q.Where("community_id = ?", f.CommunityID)
	}
	if f.CreatorID != "" {
		q = q.Where("creator_id = ?", f.CreatorID)
	}
	if f.ViewerID != "" && f.CommunityID == "" && f.CreatorID == "" {
		ids, err := FindJoinedCommunityIDs(f.ViewerID)
		if err != nil {
			return nil, err
		}
		if len(ids) != 0 {
			q = q.Where("community_id IN ?", ids)
		}
	}
	return q, nil
}

// NewFeed orders by creation time, newest first. The cursor is the unix
// millisecond timestamp of the last seen item; rows at or after it are
// excluded.
func NewFeed(f FeedFilter, limit int, cursor string) (*FeedPage, error) {
	useCache := cursor == "" && limit > 0
	cacheKey := f.cacheKey("new") + ":" + strconv.Itoa(limit)
	if useCache {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if page, ok := cached.(*FeedPage); ok {
				return page, nil
			}
		}
	}

	q, err := baseFeedQuery(f)
	if err != nil {
		return nil, err
	}
	q = q.Order("created_at DESC")
	if cursor != "" {
		ms, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "cursor", "Invalid cursor.")
		}
		q = q.Where("created_at < ?", time.UnixMilli(ms))
	}

	page, err := fetchPage(q, limit)
	if err != nil {
		return nil, err
	}
	if page.HasMore {
		last := page.Posts[len(page.Posts)-1]
		page.NextCursor = strconv.FormatInt(last.CreatedAt.UnixMilli(), 10)
	}
	if useCache {
		utils.GetCache().Set(cacheKey, page, feedHeadTTL)
	}
	return page, nil
}

// TopFeed orders by points, highest first, restricted to the window. The
// cursor is the point count of the last seen item; ties at the boundary are
// dropped by the strict comparison.
func TopFeed(f FeedFilter, window FeedWindow, limit int, cursor string) (*FeedPage, error) {
	q, err := baseFeedQuery(f)
	if err != nil {
		return nil, err
	}
	q = q.Order("points DESC, created_at DESC")
	if since, ok := window.Since(time.Now()); ok {
		q = q.Where("created_at BETWEEN ? AND ?", since, time.Now())
	}
	if cursor != "" {
		points, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "cursor", "Invalid cursor.")
		}
		q = q.Where("points < ?", points)
	}

	page, err := fetchPage(q, limit)
	if err != nil {
		return nil, err
	}
	if page.HasMore {
		last := page.Posts[len(page.Posts)-1]
		page.NextCursor = strconv.Itoa(last.Points)
	}
	return page, nil
}

// fetchPage pulls limit+1 rows and trims the probe row into HasMore. A limit
// of zero returns everything with HasMore=false.
func fetchPage(q *gorm.DB, limit int) (*FeedPage, error) {
	if limit > 0 {
		q = q.Limit(limit + 1)
	}
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "feed query")
	}

	page := &FeedPage{Posts: posts}
	if limit > 0 && len(posts) == limit+1 {
		page.HasMore = true
		page.Posts = posts[:limit]
	}
	return page, nil
}

// invalidateFeedHeads drops cached first pages touching the community. Keys
// carry viewer/limit variants, so the global wipe is approximated by deleting
// the anonymous variants; stale entries age out within feedHeadTTL anyway.
func invalidateFeedHeads(communityID string) {
	for _, limit := range []int{10, 20, 30, 50} {
		utils.GetCache().Delete(fmt.Sprintf("feed:new:c=%s:u=:v=:%d", communityID, limit))
		utils.GetCache().Delete(fmt.Sprintf("feed:new:c=:u=:v=:%d", limit))
	}
}
