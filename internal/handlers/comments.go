package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/ids"
	"pitchside/api/internal/middleware"
	"pitchside/api/internal/models"
	"pitchside/api/internal/repository"
)

type commentRequest struct {
	Body        string `json:"body" binding:"required"`
	TimecodeSec *int   `json:"timecodeSec"`
}

func (h HandlerSet) ListComments(c *gin.Context) {
	matchID := c.Param("id")

	exists, err := h.matches.Exists(c.Request.Context(), matchID)
	if err != nil {
		h.log.Error().Err(err).Msg("match lookup failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		fail(c, http.StatusNotFound, "Match not found")
		return
	}

	comments, err := h.comments.ListByMatch(c.Request.Context(), matchID)
	if err != nil {
		h.log.Error().Err(err).Msg("list comments failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "comments": comments})
}

func (h HandlerSet) CreateComment(c *gin.Context) {
	payload, ok := middleware.CurrentSession(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID := c.Param("id")

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Comment body is required")
		return
	}

	exists, err := h.matches.Exists(c.Request.Context(), matchID)
	if err != nil {
		h.log.Error().Err(err).Msg("match lookup failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		fail(c, http.StatusNotFound, "Match not found")
		return
	}

	comment := models.Comment{
		ID:          ids.New(),
		MatchID:     matchID,
		UserID:      payload.UserID,
		Body:        req.Body,
		TimecodeSec: req.TimecodeSec,
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		h.log.Error().Err(err).Msg("create comment failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "comment": comment})
}

// DeleteComment only removes the caller's own comment; someone else's id
// yields the same 404 as a nonexistent one.
func (h HandlerSet) DeleteComment(c *gin.Context) {
	payload, ok := middleware.CurrentSession(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.comments.DeleteOwned(c.Request.Context(), c.Param("commentId"), payload.UserID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		h.log.Error().Err(err).Msg("delete comment failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
