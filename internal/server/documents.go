package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/invoicegen/internal/document/domain"
	"github.com/smallbiznis/invoicegen/internal/history"
	"github.com/smallbiznis/invoicegen/internal/render"
	"go.uber.org/zap"
)

// RenderDocument validates the request body, renders the PDF, and records a
// best-effort history entry. Anonymous callers are served on the free tier;
// authenticated callers get their resolved entitlement.
func (s *Server) RenderDocument(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.AbortWithError(c, documentdomain.ErrMalformedBody)
		return
	}

	payload, err := s.validator.Parse(raw)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	userID, authenticated := s.userID(c)
	premium := false
	if authenticated {
		entitlement, err := s.subSvc.Resolve(c.Request.Context(), userID)
		if err != nil {
			s.AbortWithError(c, err)
			return
		}
		premium = entitlement.IsPremium()
	}

	artifact, err := s.renderer.RenderPDF(render.RenderInput{Payload: payload, Premium: premium})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	totals := payload.ComputeTotals()
	s.recorder.RecordAsync(history.Summary{
		UserID:         userID,
		DocumentType:   payload.DocumentType,
		DocumentNumber: payload.DocumentNumber,
		Currency:       payload.Currency,
		Total:          totals.Total,
		Watermarked:    !premium,
		Metadata: map[string]any{
			"items":    len(payload.Items),
			"subtotal": totals.Subtotal,
		},
	})

	s.log.Info("document rendered",
		zap.String("document_type", string(payload.DocumentType)),
		zap.String("document_number", payload.DocumentNumber),
		zap.Bool("premium", premium),
		zap.Int("size", artifact.Size),
	)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.Filename(payload)))
	c.Header("Content-Length", strconv.Itoa(artifact.Size))
	c.Data(http.StatusOK, "application/pdf", artifact.Bytes)
}

// ValidateDocument is a dry run: it returns the derived totals for a valid
// payload or the full violation list.
func (s *Server) ValidateDocument(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.AbortWithError(c, documentdomain.ErrMalformedBody)
		return
	}

	payload, err := s.validator.Parse(raw)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "valid",
		"totals": payload.ComputeTotals(),
	})
}

// ListDocuments returns the caller's rendered document history. Premium only;
// the gate runs in middleware.
func (s *Server) ListDocuments(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		s.AbortWithError(c, ErrUnauthorized)
		return
	}

	limit := 0
	if value := c.Query("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			s.AbortWithError(c, newValidationError("limit", "must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := s.recorder.List(c.Request.Context(), userID, limit)
	if err != nil {
		s.log.Error("list documents failed", zap.String("user_id", userID), zap.Error(err))
		s.AbortWithError(c, ErrServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
