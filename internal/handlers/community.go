package handlers

import (
	"gather/internal/apperr"
	"gather/internal/services"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct{}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{}
}

type createCommunityInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	TopicIDs    []string `json:"topic_ids" binding:"required"`
}

// Create registers a new community and makes the caller its first moderator.
func (h *CommunityHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var in createCommunityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	community, err := services.CreateCommunity(in.Name, in.Description, in.TopicIDs, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, community)
}

// Detail looks a community up by name, with topics and member count.
func (h *CommunityHandler) Detail(c *gin.Context) {
	community, err := services.FindCommunityByName(c.Param("name"))
	if err != nil {
		Fail(c, err)
		return
	}
	if community == nil {
		Fail(c, apperr.New(apperr.NotFound, "name", "No such community."))
		return
	}
	OK(c, community)
}

// Mine lists the communities the caller is a member of.
func (h *CommunityHandler) Mine(c *gin.Context) {
	user := CurrentUser(c)
	communities, err := services.FindCommunitiesByUser(user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, communities)
}

func (h *CommunityHandler) Join(c *gin.Context) {
	user := CurrentUser(c)
	role, err := services.JoinCommunity(user.ID, c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, role)
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	user := CurrentUser(c)
	if err := services.LeaveCommunity(user.ID, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, true)
}

// requireModerator loads the caller's role and rejects non-moderators.
func requireModerator(c *gin.Context, communityID string) bool {
	user := CurrentUser(c)
	moderator, err := services.IsModerator(user.ID, communityID)
	if err != nil {
		Fail(c, err)
		return false
	}
	if !moderator {
		Fail(c, apperr.ErrNotModerator)
		return false
	}
	return true
}

type editDescriptionInput struct {
	Description string `json:"description"`
}

func (h *CommunityHandler) EditDescription(c *gin.Context) {
	id := c.Param("id")
	if !requireModerator(c, id) {
		return
	}

	var in editDescriptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	if err := services.UpdateCommunityDescription(id, in.Description); err != nil {
		Fail(c, err)
		return
	}
	OK(c, true)
}

func (h *CommunityHandler) SetAppearance(c *gin.Context) {
	id := c.Param("id")
	if !requireModerator(c, id) {
		return
	}

	var in services.AppearanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	if err := services.UpdateCommunityAppearance(id, in); err != nil {
		Fail(c, err)
		return
	}
	OK(c, true)
}
