package handlers

import (
	"net/http"
	"strconv"

	"gather/internal/apperr"
	"gather/internal/models"
	"gather/internal/services"
	"gather/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

func badInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "input", Message: "Invalid request body."}}})
}

type createTextPostInput struct {
	Title       string `json:"title" binding:"required"`
	Text        string `json:"text" binding:"required"`
	CommunityID string `json:"community_id" binding:"required"`
}

func (h *PostHandler) CreateTextPost(c *gin.Context) {
	user := CurrentUser(c)

	var in createTextPostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	post, err := services.CreateTextPost(in.Title, in.Text, in.CommunityID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, post)
}

type createImagePostInput struct {
	Title       string                `json:"title" binding:"required"`
	Images      []services.ImageInput `json:"images" binding:"required"`
	CommunityID string                `json:"community_id" binding:"required"`
}

func (h *PostHandler) CreateImagePost(c *gin.Context) {
	user := CurrentUser(c)

	var in createImagePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	post, err := services.CreateImagePost(in.Title, in.Images, in.CommunityID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, post)
}

type createCommentInput struct {
	Text        string `json:"text" binding:"required"`
	CommunityID string `json:"community_id" binding:"required"`
	ParentID    string `json:"parent_id" binding:"required"`
	AncestorID  string `json:"ancestor_id" binding:"required"`
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	user := CurrentUser(c)

	var in createCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	comment, err := services.CreateComment(in.Text, in.CommunityID, in.ParentID, in.AncestorID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, comment)
}

// postView decorates a post with its rendered body for detail responses.
type postView struct {
	*models.Post
	BodyHTML string `json:"body_html,omitempty"`
}

// Detail returns the post with creator, community, children, ancestor, image
// rows, total comment count and a sanitized HTML rendering of the body.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := services.FindPostByID(c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	if post == nil {
		OK(c, nil)
		return
	}

	view := postView{Post: post}
	if post.Body != "" {
		view.BodyHTML = utils.RenderMarkdown(post.Body)
	}
	OK(c, view)
}

// Delete removes the caller's own post with its full comment/vote/image
// cascade.
func (h *PostHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	id := c.Param("id")

	post, err := services.FindPostByID(id)
	if err != nil {
		Fail(c, err)
		return
	}
	if post == nil {
		Fail(c, apperr.New(apperr.NotFound, "postId", "Post no longer exists."))
		return
	}
	if post.CreatorID != user.ID {
		Fail(c, apperr.ErrNotCreator)
		return
	}

	affected, err := services.RemovePost(id)
	if err != nil {
		Fail(c, err)
		return
	}
	if affected == 0 {
		Fail(c, apperr.New(apperr.NotFound, "postId", "Post no longer exists."))
		return
	}
	OK(c, id)
}

type updateStatusInput struct {
	Status int `json:"status"`
}

// UpdateStatus flips a post between active and removed. Only moderators of
// the post's community may do this.
func (h *PostHandler) UpdateStatus(c *gin.Context) {
	user := CurrentUser(c)
	id := c.Param("id")

	var in updateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	post, err := services.FindPostByID(id)
	if err != nil {
		Fail(c, err)
		return
	}
	if post == nil {
		Fail(c, apperr.New(apperr.NotFound, "postId", "Post no longer exists."))
		return
	}

	moderator, err := services.IsModerator(user.ID, post.CommunityID)
	if err != nil {
		Fail(c, err)
		return
	}
	if !moderator {
		Fail(c, apperr.ErrNotModerator)
		return
	}

	affected, err := services.UpdatePostStatus(id, models.PostStatus(in.Status))
	if err != nil {
		Fail(c, err)
		return
	}
	if affected == 0 {
		Fail(c, apperr.New(apperr.Transaction, "postId", "Failed to update post status of that post."))
		return
	}
	OK(c, true)
}

// feedParams reads the shared pagination/ranking query parameters.
func feedParams(c *gin.Context) (limit int, cursor string, window services.FeedWindow, err error) {
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 0 {
			return 0, "", 0, apperr.New(apperr.Validation, "limit", "Invalid limit.")
		}
	}
	cursor = c.Query("cursor")
	window, err = services.ParseFeedWindow(c.Query("window"))
	if err != nil {
		return 0, "", 0, err
	}
	return limit, cursor, window, nil
}

// Feed serves the home and community feeds under both ranking modes.
// sort=new|top, optional community_id, limit, cursor, window.
func (h *PostHandler) Feed(c *gin.Context) {
	limit, cursor, window, err := feedParams(c)
	if err != nil {
		Fail(c, err)
		return
	}

	filter := services.FeedFilter{CommunityID: c.Query("community_id")}
	if user := CurrentUser(c); user != nil {
		filter.ViewerID = user.ID
	}

	var page *services.FeedPage
	switch c.DefaultQuery("sort", "new") {
	case "top":
		page, err = services.TopFeed(filter, window, limit, cursor)
	case "new":
		page, err = services.NewFeed(filter, limit, cursor)
	default:
		Fail(c, apperr.New(apperr.Validation, "sort", "Invalid sort order."))
		return
	}
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, page)
}

// UserPosts serves one user's top-level posts, both ranking modes. Removed
// posts stay visible here, matching the profile view of the original system.
func (h *PostHandler) UserPosts(c *gin.Context) {
	limit, cursor, window, err := feedParams(c)
	if err != nil {
		Fail(c, err)
		return
	}

	user, err := services.FindUserByName(c.Param("username"))
	if err != nil {
		Fail(c, err)
		return
	}
	if user == nil {
		Fail(c, apperr.New(apperr.NotFound, "username", "No such user."))
		return
	}

	filter := services.FeedFilter{CreatorID: user.ID, IncludeRemoved: true}

	var page *services.FeedPage
	switch c.DefaultQuery("sort", "new") {
	case "top":
		page, err = services.TopFeed(filter, window, limit, cursor)
	case "new":
		page, err = services.NewFeed(filter, limit, cursor)
	default:
		Fail(c, apperr.New(apperr.Validation, "sort", "Invalid sort order."))
		return
	}
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, page)
}

// UserComments lists the threads a user commented under, with the user's
// comments grouped per thread root.
func (h *PostHandler) UserComments(c *gin.Context) {
	user, err := services.FindUserByName(c.Param("username"))
	if err != nil {
		Fail(c, err)
		return
	}
	if user == nil {
		Fail(c, apperr.New(apperr.NotFound, "username", "No such user."))
		return
	}

	ancestorIDs, err := services.FindAllPostsUserCommented(user.ID)
	if err != nil {
		Fail(c, err)
		return
	}

	type threadComments struct {
		Ancestor *models.Post  `json:"ancestor"`
		Comments []models.Post `json:"comments"`
	}
	threads := make([]threadComments, 0, len(ancestorIDs))
	for _, ancestorID := range ancestorIDs {
		ancestor, err := services.FindPostByID(ancestorID)
		if err != nil {
			Fail(c, err)
			return
		}
		if ancestor == nil {
			continue
		}
		comments, err := services.FindUserComments(user.ID, ancestorID)
		if err != nil {
			Fail(c, err)
			return
		}
		threads = append(threads, threadComments{Ancestor: ancestor, Comments: comments})
	}
	OK(c, threads)
}
