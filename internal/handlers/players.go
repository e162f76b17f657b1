package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/ids"
	"pitchside/api/internal/models"
	"pitchside/api/internal/repository"
)

type playerRequest struct {
	TeamID      string `json:"teamId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirtNumber"`
	BirthYear   int    `json:"birthYear"`
}

func (h HandlerSet) CreatePlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "teamId and name are required")
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

	player := models.Player{
		ID:          ids.New(),
		TeamID:      req.TeamID,
		Name:        req.Name,
		Position:    req.Position,
		ShirtNumber: req.ShirtNumber,
		BirthYear:   req.BirthYear,
	}
	if err := h.players.Create(c.Request.Context(), player); err != nil {
		h.log.Error().Err(err).Msg("create player failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	created, err := h.players.GetByID(c.Request.Context(), player.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("load created player failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "player": created})
}

func (h HandlerSet) GetPlayer(c *gin.Context) {
	player, err := h.players.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			fail(c, http.StatusNotFound, "Player not found")
			return
		}
		h.log.Error().Err(err).Msg("get player failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "player": player})
}

func (h HandlerSet) UpdatePlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "teamId and name are required")
		return
	}

	player := models.Player{
		ID:          c.Param("id"),
		TeamID:      req.TeamID,
		Name:        req.Name,
		Position:    req.Position,
		ShirtNumber: req.ShirtNumber,
		BirthYear:   req.BirthYear,
	}
	if err := h.players.Update(c.Request.Context(), player); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			fail(c, http.StatusNotFound, "Player not found")
			return
		}
		h.log.Error().Err(err).Msg("update player failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	updated, err := h.players.GetByID(c.Request.Context(), player.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("load updated player failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "player": updated})
}

func (h HandlerSet) DeletePlayer(c *gin.Context) {
	if err := h.players.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			fail(c, http.StatusNotFound, "Player not found")
			return
		}
		h.log.Error().Err(err).Msg("delete player failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
