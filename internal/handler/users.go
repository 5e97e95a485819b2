package handler

import (
	"net/http"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.services.User.Register(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) authLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.services.User.Login(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) usersGetMe(c *gin.Context) {
	user := h.getUserFromRequest(c)

	profile, err := h.services.User.Me(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersUpdateMe(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	profile, err := h.services.User.UpdateMe(c.Request.Context(), user, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersGetAll(c *gin.Context) {
	users, err := h.services.User.FindAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handler) usersGetByID(c *gin.Context) {
	userID, ok := h.paramID(c, "id", errInvalidUserID)
	if !ok {
		return
	}

	profile, err := h.services.User.Profile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersSetRole(c *gin.Context) {
	user := h.getUserFromRequest(c)

	userID, ok := h.paramID(c, "id", errInvalidUserID)
	if !ok {
		return
	}

	var input dto.SetRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.services.User.SetRole(c.Request.Context(), user, userID, input.Role); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("role updated"))
}

func (h *Handler) usersDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	userID, ok := h.paramID(c, "id", errInvalidUserID)
	if !ok {
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), user, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("user deleted"))
}
