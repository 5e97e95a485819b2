package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) followToggle(c *gin.Context) {
	user := h.getUserFromRequest(c)

	targetID, ok := h.paramID(c, "id", errInvalidUserID)
	if !ok {
		return
	}

	resp, err := h.services.Follow.Toggle(c.Request.Context(), user, targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) followStatus(c *gin.Context) {
	user := h.getUserFromRequest(c)

	targetID, ok := h.paramID(c, "id", errInvalidUserID)
	if !ok {
		return
	}

	resp, err := h.services.Follow.Status(c.Request.Context(), user, targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
