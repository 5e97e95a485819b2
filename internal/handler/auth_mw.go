package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	user, err := h.services.User.Authenticate(c.Request.Context(), accessToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Set(userKey, user)

	c.Next()
}

// adminMiddleware must run after authMiddleware.
func (h *Handler) adminMiddleware(c *gin.Context) {
	user := h.getUserFromRequest(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	if !user.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewMessageResponse(errNoAccess.Error()))
		return
	}

	c.Next()
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.User {
	userReq, ok := c.Get(userKey)
	if !ok {
		return nil
	}

	user, ok := userReq.(*model.User)
	if !ok {
		return nil
	}

	return user
}
