package handlers

import (
	"gather/internal/services"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct{}

func NewTopicHandler() *TopicHandler {
	return &TopicHandler{}
}

func (h *TopicHandler) List(c *gin.Context) {
	topics, err := services.FindAllTopics()
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, topics)
}

type createTopicInput struct {
	Title string `json:"title" binding:"required"`
}

func (h *TopicHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var in createTopicInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	topic, err := services.CreateTopic(in.Title, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, topic)
}
