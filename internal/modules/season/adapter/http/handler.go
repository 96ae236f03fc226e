// Package http exposes the season service's REST surface.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	challengedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	challengeusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/usecase"
	seasonusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/season/usecase"
	tribeusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/usecase"
	voteusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/usecase"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// Handler handles HTTP requests for the season service
type Handler struct {
	seasonUC    *seasonusecase.SeasonUseCase
	challengeUC *challengeusecase.ChallengeUseCase
	tallyUC     *voteusecase.TallyUseCase
	tribeUC     *tribeusecase.TribeUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(
	seasonUC *seasonusecase.SeasonUseCase,
	challengeUC *challengeusecase.ChallengeUseCase,
	tallyUC *voteusecase.TallyUseCase,
	tribeUC *tribeusecase.TribeUseCase,
) *Handler {
	return &Handler{
		seasonUC:    seasonUC,
		challengeUC: challengeUC,
		tallyUC:     tallyUC,
		tribeUC:     tribeUC,
	}
}

// RegisterRoutes registers all season service routes to the given router group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	seasons := router.Group("/seasons")
	seasons.POST("", h.StartSeason)
	seasons.GET("/:id", h.GetSeason)
	seasons.POST("/:id/cancel", h.CancelSeason)
	seasons.POST("/:id/tribes", h.CreateTribe)
	seasons.POST("/:id/tribes/:tribeID/members", h.AddMember)
	seasons.GET("/:id/members", h.ListMembers)
	seasons.POST("/:id/challenges", h.OpenChallenge)
	seasons.POST("/:id/votes", h.CastVote)

	challenges := router.Group("/challenges")
	challenges.GET("/:id/audit", h.AuditChallenge)
	challenges.POST("/:id/verify", h.VerifyRoll)
}

// statusOf maps the error taxonomy onto HTTP status codes
func statusOf(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsConflict(err):
		return http.StatusConflict
	case apperr.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DTOs
type challengeEntry struct {
	SubjectID        string   `json:"subject_id" binding:"required"`
	TribeID          string   `json:"tribe_id"`
	ClientSeed       string   `json:"client_seed" binding:"required"`
	Energy           int      `json:"energy"`
	ItemBonus        int      `json:"item_bonus"`
	EventBonus       int      `json:"event_bonus"`
	ArchetypeBonus   int      `json:"archetype_bonus"`
	DebuffResistance float64  `json:"debuff_resistance"`
	Debuffs          []string `json:"debuffs"`
}

type openChallengeRequest struct {
	Day         int              `json:"day" binding:"required,min=1"`
	SubjectType string           `json:"subject_type" binding:"required"`
	TopK        int              `json:"top_k"`
	Entries     []challengeEntry `json:"entries" binding:"required"`
}

type castVoteRequest struct {
	Day        int    `json:"day" binding:"required,min=1"`
	VoterID    string `json:"voter_id" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
	IdolPlayed bool   `json:"idol_played"`
}

type createTribeRequest struct {
	TribeID string `json:"tribe_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type addMemberRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type verifyRollRequest struct {
	SubjectID     string `json:"subject_id" binding:"required"`
	ExpectedTotal int    `json:"expected_total"`
}

// StartSeason creates a season and launches its orchestrator
func (h *Handler) StartSeason(c *gin.Context) {
	var req seasonusecase.StartSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("StartSeason: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	season, err := h.seasonUC.Start(c.Request.Context(), req)
	if err != nil {
		logger.Error(c.Request.Context()).Err(err).Str("mode", req.Mode).Msg("StartSeason: failed")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, season)
}

// GetSeason returns the season's persisted state
func (h *Handler) GetSeason(c *gin.Context) {
	season, err := h.seasonUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, season)
}

// CancelSeason stops a running season
func (h *Handler) CancelSeason(c *gin.Context) {
	seasonID := c.Param("id")
	if err := h.seasonUC.Cancel(c.Request.Context(), seasonID); err != nil {
		logger.Error(c.Request.Context()).Err(err).Str("season_id", seasonID).Msg("CancelSeason: failed")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateTribe registers a tribe for a season
func (h *Handler) CreateTribe(c *gin.Context) {
	var req createTribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tribe, err := h.tribeUC.CreateTribe(c.Request.Context(), c.Param("id"), req.TribeID, req.Name)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tribe)
}

// AddMember puts a player on a tribe's roster
func (h *Handler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.tribeUC.AddMember(c.Request.Context(), c.Param("id"), c.Param("tribeID"), req.PlayerID)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, member)
}

// ListMembers returns the season's roster
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.tribeUC.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// OpenChallenge opens the day's challenge and publishes the seed commitment
func (h *Handler) OpenChallenge(c *gin.Context) {
	var req openChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context()).Err(err).Msg("OpenChallenge: invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]challengeusecase.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, challengeusecase.Entry{
			SubjectID:        e.SubjectID,
			TribeID:          e.TribeID,
			ClientSeed:       e.ClientSeed,
			Energy:           e.Energy,
			ItemBonus:        e.ItemBonus,
			EventBonus:       e.EventBonus,
			ArchetypeBonus:   e.ArchetypeBonus,
			DebuffResistance: e.DebuffResistance,
			Debuffs:          e.Debuffs,
		})
	}

	challenge, err := h.challengeUC.Open(
		c.Request.Context(),
		c.Param("id"),
		req.Day,
		challengedomain.SubjectType(req.SubjectType),
		req.TopK,
		entries,
	)
	if err != nil {
		logger.Error(c.Request.Context()).Err(err).Int("day", req.Day).Msg("OpenChallenge: failed")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// CastVote records one council ballot
func (h *Handler) CastVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := h.tallyUC.Cast(c.Request.Context(), c.Param("id"), req.Day, req.VoterID, req.TargetID, req.IdolPlayed)
	if err != nil {
		logger.Warn(c.Request.Context()).Err(err).Str("voter_id", req.VoterID).Msg("CastVote: failed")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote_id": vote.VoteID, "day": vote.Day})
}

// AuditChallenge returns the full commit-reveal audit trail for a challenge
func (h *Handler) AuditChallenge(c *gin.Context) {
	record, err := h.challengeUC.Audit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// VerifyRoll recomputes one subject's roll from revealed seeds
func (h *Handler) VerifyRoll(c *gin.Context) {
	var req verifyRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid, err := h.challengeUC.VerifyRoll(c.Request.Context(), c.Param("id"), req.SubjectID, req.ExpectedTotal)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}
