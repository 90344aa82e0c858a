package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/http/response"
	"github.com/a-korvus/business-management-system/internal/pkg/ctxutil"
)

// HeaderUserID carries the caller identity resolved by the upstream identity
// provider.
const HeaderUserID = "X-User-ID"

// AttachRequestContext stores the caller identity in the request context.
// A missing header leaves the request anonymous; a malformed one is rejected.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw == "" {
			c.Next()
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", userID)
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctxutil.UserID(c.Request.Context()) == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "missing_identity", nil)
			return
		}
		c.Next()
	}
}
