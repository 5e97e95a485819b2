package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

var (
	errNotAuthorized    = errors.New("user is not authorized")
	errNoAccess         = errors.New("no access")
	errInvalidPostID    = errors.New("invalid post ID")
	errInvalidCommentID = errors.New("invalid comment ID")
	errInvalidReplyID   = errors.New("invalid reply ID")
	errInvalidUserID    = errors.New("invalid user ID")
)

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Errors the service did not
// classify are logged and reported as an opaque 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var e *service.Error
	if errors.As(err, &e) {
		c.AbortWithStatusJSON(statusOf(e.Kind), dto.NewMessageResponse(e.Message))
		return
	}

	if !errors.Is(err, service.ErrInternal) {
		h.logger.Error("unhandled error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewMessageResponse(service.ErrInternal.Error()))
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewMessageResponse(err.Error()))
}

// paramID parses a hex object id path parameter. On failure it writes a 400
// with invalidErr and reports false.
func (h *Handler) paramID(c *gin.Context, name string, invalidErr error) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		h.badRequest(c, invalidErr)
		return bson.ObjectID{}, false
	}
	return id, true
}
