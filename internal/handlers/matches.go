package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/ids"
	"pitchside/api/internal/models"
	"pitchside/api/internal/repository"
)

type matchRequest struct {
	TeamID      string    `json:"teamId" binding:"required"`
	Opponent    string    `json:"opponent" binding:"required"`
	Competition string    `json:"competition"`
	Venue       string    `json:"venue"`
	KickoffAt   time.Time `json:"kickoffAt" binding:"required"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
	Notes       string    `json:"notes"`
}

func (h HandlerSet) ListMatches(c *gin.Context) {
	matches, err := h.matches.List(c.Request.Context(), c.Query("teamId"))
	if err != nil {
		h.log.Error().Err(err).Msg("list matches failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "matches": matches})
}

func (h HandlerSet) CreateMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "teamId, opponent and kickoffAt are required")
		return
	}

	if _, err := h.teams.GetByID(c.Request.Context(), req.TeamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			fail(c, http.StatusNotFound, "Team not found")
			return
		}
		h.log.Error().Err(err).Msg("get team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	match := models.Match{
		ID:          ids.New(),
		TeamID:      req.TeamID,
		Opponent:    req.Opponent,
		Competition: req.Competition,
		Venue:       req.Venue,
		KickoffAt:   req.KickoffAt,
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		Notes:       req.Notes,
	}
	if err := h.matches.Create(c.Request.Context(), match); err != nil {
		h.log.Error().Err(err).Msg("create match failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	created, err := h.matches.GetByID(c.Request.Context(), match.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("load created match failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "match": created})
}

func (h HandlerSet) GetMatch(c *gin.Context) {
	match, err := h.matches.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			fail(c, http.StatusNotFound, "Match not found")
			return
		}
		h.log.Error().Err(err).Msg("get match failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "match": match})
}

func (h HandlerSet) UpdateMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "teamId, opponent and kickoffAt are required")
		return
	}

	match := models.Match{
		ID:          c.Param("id"),
		TeamID:      req.TeamID,
		Opponent:    req.Opponent,
		Competition: req.Competition,
		Venue:       req.Venue,
		KickoffAt:   req.KickoffAt,
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		Notes:       req.Notes,
	}
	if err := h.matches.Update(c.Request.Context(), match); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			fail(c, http.StatusNotFound, "Match not found")
			return
		}
		h.log.Error().Err(err).Msg("update match failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	updated, err := h.matches.GetByID(c.Request.Context(), match.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("load updated match failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "match": updated})
}

func (h HandlerSet) DeleteMatch(c *gin.Context) {
	if err := h.matches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			fail(c, http.StatusNotFound, "Match not found")
			return
		}
		h.log.Error().Err(err).Msg("delete match failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
