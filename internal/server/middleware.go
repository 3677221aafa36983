package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/invoicegen/internal/subscription/domain"
	"go.uber.org/zap"
)

const (
	contextUserIDKey      = "user_id"
	contextEntitlementKey = "entitlement"

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
	headerRetryAfter         = "Retry-After"
)

// RateLimit guards an operation with its own fixed-window budget, keyed by
// client address. Limit metadata is attached to every response so clients can
// self-throttle, including rejections.
func (s *Server) RateLimit(operation string, limit config.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.Key(operation, c.ClientIP())

		decision, err := s.limits.Check(c.Request.Context(), key, limit.MaxRequests, limit.Window)
		if err != nil {
			// A broken limiter store must not take the API down with it.
			s.log.Warn("rate limit check failed, allowing request",
				zap.String("operation", operation),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header(headerRateLimitLimit, strconv.Itoa(decision.Limit))
		c.Header(headerRateLimitRemaining, strconv.Itoa(decision.Remaining))
		c.Header(headerRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := decision.ResetAt.Sub(s.clk.Now())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header(headerRetryAfter, strconv.Itoa(int(retryAfter.Seconds())+1))
			s.AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// Identity resolves a bearer session token when one is present. Anonymous
// requests proceed; endpoints that need an identity gate on RequireIdentity.
func (s *Server) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		id, ok, err := s.identities.Resolve(c.Request.Context(), token)
		if err != nil {
			s.log.Error("identity lookup failed", zap.Error(err))
			s.AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if ok {
			c.Set(contextUserIDKey, id.UserID)
		}
		c.Next()
	}
}

// RequireIdentity aborts with 401 when the request carries no resolved
// identity.
func (s *Server) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := s.userID(c); !ok {
			s.AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequirePremium enforces the premium gate for the given operation. The
// caller is already authenticated; an insufficient tier yields 403, distinct
// from 401.
func (s *Server) RequirePremium(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !subscriptiondomain.RequiresPremium(operation) {
			c.Next()
			return
		}

		userID, ok := s.userID(c)
		if !ok {
			s.AbortWithError(c, ErrUnauthorized)
			return
		}

		entitlement, err := s.subSvc.Resolve(c.Request.Context(), userID)
		if err != nil {
			s.AbortWithError(c, err)
			return
		}
		if !entitlement.IsPremium() {
			s.AbortWithError(c, ErrForbidden)
			return
		}

		c.Set(contextEntitlementKey, entitlement)
		c.Next()
	}
}

func (s *Server) userID(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
