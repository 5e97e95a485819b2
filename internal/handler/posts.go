package handler

import (
	"net/http"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) articlesCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	createdPost, err := h.services.Article.Create(c.Request.Context(), user, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdPost)
}

func (h *Handler) articlesGetAll(c *gin.Context) {
	posts, err := h.services.Article.FindAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) articlesGetMy(c *gin.Context) {
	user := h.getUserFromRequest(c)

	posts, err := h.services.Article.FindByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) articlesGetByID(c *gin.Context) {
	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}

	post, err := h.services.Article.FindByID(c.Request.Context(), postID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) articlesUpdate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	updatedPost, err := h.services.Article.Update(c.Request.Context(), user, postID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedPost)
}

func (h *Handler) articlesDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), user, postID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("post deleted"))
}

func (h *Handler) articlesLike(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}

	resp, err := h.services.Article.ToggleLike(c.Request.Context(), user, postID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
