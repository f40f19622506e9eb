package handlers

import (
	"gather/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteInput struct {
	PostID string `json:"post_id" binding:"required"`
	Value  int    `json:"value"`
}

// Vote applies an up- or downvote, flipping or cancelling any earlier vote by
// the same user, and returns the points delta applied to the post.
func (h *VoteHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)

	var in voteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	points, err := services.Vote(user.ID, in.PostID, in.Value)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"points": points})
}

// Status reports the caller's current vote on a post: -1, 0 or 1.
func (h *VoteHandler) Status(c *gin.Context) {
	user := CurrentUser(c)

	upvote, err := services.FindUpvote(user.ID, c.Param("postId"))
	if err != nil {
		Fail(c, err)
		return
	}
	value := 0
	if upvote != nil {
		value = upvote.Value
	}
	OK(c, gin.H{"value": value})
}
