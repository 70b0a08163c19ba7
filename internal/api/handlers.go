// internal/api/handlers.go
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"krishisahay/internal/common/errors"
	"krishisahay/internal/models"
)

// fallbackAnswer is returned alongside a 500 so a farmer-facing client
// always has something to display.
const fallbackAnswer = "Sorry, I could not process your question right now. Please try again in a moment, or call the Kisan Call Centre at 1800-180-1551."

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

func (s *Server) handleAsk(c *gin.Context) {
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.NewMalformedRequestError(err.Error()))
		return
	}

	resp, err := s.pipeline.Ask(c.Request.Context(), req.Query, req.Language)
	if err != nil {
		s.respondError(c, errors.Normalize(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.NewMalformedRequestError(err.Error()))
		return
	}

	if err := s.pipeline.SubmitFeedback(c.Request.Context(), req.Query, req.Answer, req.Feedback); err != nil {
		s.respondError(c, errors.Normalize(err))
		return
	}

	c.JSON(http.StatusOK, models.AckResponse{
		Status:  "ok",
		Message: "Feedback recorded",
	})
}

func (s *Server) handleAppFeedback(c *gin.Context) {
	var req models.AppFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.NewMalformedRequestError(err.Error()))
		return
	}

	if err := s.pipeline.SubmitAppFeedback(c.Request.Context(), req.Message, req.Rating, req.Page); err != nil {
		s.respondError(c, errors.Normalize(err))
		return
	}

	c.JSON(http.StatusOK, models.AckResponse{
		Status:  "ok",
		Message: "Feedback recorded",
	})
}

func (s *Server) handleListAppFeedback(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, errors.NewMalformedRequestError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	items, err := s.pipeline.RecentAppFeedback(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, errors.Normalize(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(items),
		"feedback": items,
	})
}

// respondError maps a StandardError onto the wire. Validation problems
// carry just the message; internal faults additionally ship an apologetic
// answer with source "error" so the client can render something.
func (s *Server) respondError(c *gin.Context, stdErr *errors.StandardError) {
	status := stdErr.HTTPStatus()

	if !stdErr.IsValidation() {
		s.logger.Error("request failed", map[string]interface{}{
			"code":       string(stdErr.Code),
			"details":    stdErr.Details,
			"request_id": c.GetString("request_id"),
		})
	}

	resp := models.ErrorResponse{Error: stdErr.Message}
	if status == http.StatusInternalServerError {
		resp.Answer = fallbackAnswer
		resp.Source = models.SourceError
	}

	c.JSON(status, resp)
}
