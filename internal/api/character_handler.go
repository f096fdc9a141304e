package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/storage"
)

// CharacterHandler serves the character catalog and its admin CRUD.
type CharacterHandler struct {
	repo storage.Repository
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(repo storage.Repository) *CharacterHandler {
	return &CharacterHandler{repo: repo}
}

// ListCharacters returns the full catalog. Every authenticated user can read
// it; the level gate applies at selection time, not here.
func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	chars, err := h.repo.GetCharacters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCharacters})
		return
	}
	c.JSON(http.StatusOK, chars)
}

type CharacterPayload struct {
	Name          string `json:"name"`
	MaxHP         int    `json:"max_hp"`
	Attack        int    `json:"attack"`
	RequiredLevel int    `json:"required_level"`
}

func (p *CharacterPayload) validate(c *gin.Context) bool {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrCharacterNameRequired})
		return false
	}
	if p.MaxHP <= 0 || p.Attack <= 0 || p.RequiredLevel < 1 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return false
	}
	return true
}

// CreateCharacter adds a catalog entry. Admin only.
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	var req CharacterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if !req.validate(c) {
		return
	}

	ch := game.Character{
		Name:          req.Name,
		MaxHP:         req.MaxHP,
		Attack:        req.Attack,
		RequiredLevel: req.RequiredLevel,
	}
	if err := h.repo.CreateCharacter(&ch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveCharacter})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func characterIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("characterID"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return 0, false
	}
	return uint(id), true
}

// UpdateCharacter replaces a catalog entry's stats. Admin only. Battles in
// flight keep their snapshots; edits affect future selections.
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	id, ok := characterIDParam(c)
	if !ok {
		return
	}
	var req CharacterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if !req.validate(c) {
		return
	}

	ch, err := h.repo.GetCharacterByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCharacters})
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		return
	}
	ch.Name = req.Name
	ch.MaxHP = req.MaxHP
	ch.Attack = req.Attack
	ch.RequiredLevel = req.RequiredLevel

	if err := h.repo.UpdateCharacter(ch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveCharacter})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// DeleteCharacter removes a catalog entry. Admin only.
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	id, ok := characterIDParam(c)
	if !ok {
		return
	}
	if ch, err := h.repo.GetCharacterByID(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCharacters})
		return
	} else if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		return
	}
	if err := h.repo.DeleteCharacter(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDeleteCharacter})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "deleted"})
}
