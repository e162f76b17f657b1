package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/ids"
	"pitchside/api/internal/models"
	"pitchside/api/internal/repository"
)

type teamRequest struct {
	Name     string `json:"name" binding:"required"`
	Division string `json:"division"`
	Season   string `json:"season"`
}

func (h HandlerSet) ListTeams(c *gin.Context) {
	teams, err := h.teams.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list teams failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "teams": teams})
}

func (h HandlerSet) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Team name is required")
		return
	}

	team := models.Team{
		ID:       ids.New(),
		Name:     req.Name,
		Division: req.Division,
		Season:   req.Season,
	}
	if err := h.teams.Create(c.Request.Context(), team); err != nil {
		h.log.Error().Err(err).Msg("create team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	created, err := h.teams.GetByID(c.Request.Context(), team.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("load created team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "team": created})
}

func (h HandlerSet) GetTeam(c *gin.Context) {
	team, err := h.teams.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			fail(c, http.StatusNotFound, "Team not found")
			return
		}
		h.log.Error().Err(err).Msg("get team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "team": team})
}

func (h HandlerSet) UpdateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Team name is required")
		return
	}

	team := models.Team{
		ID:       c.Param("id"),
		Name:     req.Name,
		Division: req.Division,
		Season:   req.Season,
	}
	if err := h.teams.Update(c.Request.Context(), team); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			fail(c, http.StatusNotFound, "Team not found")
			return
		}
		h.log.Error().Err(err).Msg("update team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	updated, err := h.teams.GetByID(c.Request.Context(), team.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("load updated team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "team": updated})
}

func (h HandlerSet) DeleteTeam(c *gin.Context) {
	if err := h.teams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			fail(c, http.StatusNotFound, "Team not found")
			return
		}
		h.log.Error().Err(err).Msg("delete team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h HandlerSet) ListTeamPlayers(c *gin.Context) {
	teamID := c.Param("id")

	if _, err := h.teams.GetByID(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			fail(c, http.StatusNotFound, "Team not found")
			return
		}
		h.log.Error().Err(err).Msg("get team failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	players, err := h.players.ListByTeam(c.Request.Context(), teamID)
	if err != nil {
		h.log.Error().Err(err).Msg("list team players failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "players": players})
}
