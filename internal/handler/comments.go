package handler

import (
	"net/http"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), user, postID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) commentsReply(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}
	commentID, ok := h.paramID(c, "cid", errInvalidCommentID)
	if !ok {
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	reply, err := h.services.Comment.Reply(c.Request.Context(), user, postID, commentID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}
	commentID, ok := h.paramID(c, "cid", errInvalidCommentID)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), user, postID, commentID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("comment deleted"))
}

func (h *Handler) commentsDeleteReply(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := h.paramID(c, "id", errInvalidPostID)
	if !ok {
		return
	}
	commentID, ok := h.paramID(c, "cid", errInvalidCommentID)
	if !ok {
		return
	}
	replyID, ok := h.paramID(c, "rid", errInvalidReplyID)
	if !ok {
		return
	}

	if err := h.services.Comment.DeleteReply(c.Request.Context(), user, postID, commentID, replyID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("reply deleted"))
}

func (h *Handler) adminGetComments(c *gin.Context) {
	comments, err := h.services.Comment.FindAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}
