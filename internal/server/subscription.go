package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSubscription returns the caller's resolved entitlement.
func (s *Server) GetSubscription(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"data":       entitlement,
		"is_premium": entitlement.IsPremium(),
	})
}

// ActivateSubscription forwards an activation to the subscription store.
func (s *Server) ActivateSubscription(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		s.AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.subSvc.Activate(c.Request.Context(), userID); err != nil {
		s.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CancelSubscription forwards a cancellation to the subscription store.
func (s *Server) CancelSubscription(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		s.AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.subSvc.Cancel(c.Request.Context(), userID); err != nil {
		s.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
