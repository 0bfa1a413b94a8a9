// Package handler exposes the platform over HTTP with gin. Handlers stay
// thin: they translate requests into component calls and component errors
// into status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voxpop/backend/internal/badge"
	"voxpop/backend/internal/business"
	"voxpop/backend/internal/common"
	"voxpop/backend/internal/events"
	"voxpop/backend/internal/feedback"
	"voxpop/backend/internal/petition"
	"voxpop/backend/internal/reputation"
	"voxpop/backend/internal/response"
	"voxpop/backend/internal/signature"
	"voxpop/backend/internal/storage"
	"voxpop/backend/internal/workflow"
)

// Handler holds every dependency the HTTP layer needs.
type Handler struct {
	Store      storage.Storage
	Orch       *workflow.Orchestrator
	Petitions  *petition.Registry
	Signatures *signature.Ledger
	Responses  *response.Gate
	Feedback   *feedback.Aggregator
	Badges     *badge.Registry
	Reputation *reputation.Ledger
	Businesses *business.Service
	Hub        *events.Hub

	jwtSecret []byte
}

// NewHandler wires the handler.
func NewHandler(
	store storage.Storage,
	orch *workflow.Orchestrator,
	petitions *petition.Registry,
	signatures *signature.Ledger,
	responses *response.Gate,
	fb *feedback.Aggregator,
	badges *badge.Registry,
	rep *reputation.Ledger,
	businesses *business.Service,
	hub *events.Hub,
	jwtSecret string,
) *Handler {
	return &Handler{
		Store:      store,
		Orch:       orch,
		Petitions:  petitions,
		Signatures: signatures,
		Responses:  responses,
		Feedback:   fb,
		Badges:     badges,
		Reputation: rep,
		Businesses: businesses,
		Hub:        hub,
		jwtSecret:  []byte(jwtSecret),
	}
}

// RegisterRoutes attaches every route to the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/users", h.CreateUser)
	r.GET("/users/:username", h.GetUser)
	r.POST("/login", h.LogIn)

	r.POST("/petitions", h.AuthRequired, h.CreatePetition)
	r.GET("/petitions", h.ListPetitions)
	r.GET("/petitions/search", h.SearchPetitions)
	r.GET("/petitions/:id", h.GetPetition)
	r.DELETE("/petitions/:id", h.DeletePetition)
	r.GET("/petitions/:id/approved", h.IsApproved)
	r.GET("/petitions/:id/signatures", h.GetSignatures)
	r.GET("/petitions/:id/signatures/:signerId", h.IsSigning)
	r.PUT("/petitions/:id/signatures/:signerId", h.AuthRequired, h.Sign)
	r.DELETE("/petitions/:id/signatures/:signerId", h.AuthRequired, h.Unsign)

	r.POST("/responses", h.CreateResponse)
	r.GET("/responses/:id", h.GetResponse)
	r.DELETE("/responses/:id", h.DeleteResponse)
	r.GET("/responses/concern/:petitionId", h.GetResponseByConcern)
	r.POST("/responses/:id/feedback", h.AuthRequired, h.SubmitFeedback)
	r.DELETE("/responses/:id/feedback", h.AuthRequired, h.RetractFeedback)
	r.GET("/responses/:id/feedback", h.GetAllFeedback)
	r.GET("/responses/:id/feedback/me", h.AuthRequired, h.GetOwnFeedback)
	r.GET("/responses/:id/feedback/average", h.GetAverageRating)
	r.GET("/responses/:id/feedback/state", h.GetFeedbackState)

	r.POST("/businesses", h.RegisterBusiness)
	r.GET("/businesses", h.ListBusinesses)
	r.GET("/businesses/:id", h.GetBusiness)
	r.DELETE("/businesses/:id", h.DeleteBusiness)
	r.PUT("/businesses/users", h.AddBusinessUser)
	r.DELETE("/businesses/users", h.RemoveBusinessUser)
	r.GET("/businesses/user/:userId", h.GetUserBusinesses)
	r.GET("/businesses/:id/petitions", h.GetBusinessPetitions)
	r.GET("/businesses/:id/petitions/approved", h.GetApprovedBusinessPetitions)
	r.GET("/businesses/:id/petitions/unapproved", h.GetUnapprovedBusinessPetitions)
	r.GET("/businesses/:id/responses", h.GetBusinessResponses)

	r.GET("/badges/:owner", h.GetBadges)
	r.POST("/badges/:owner/:name", h.AddBadge)
	r.DELETE("/badges/:owner/:name", h.RemoveBadge)

	r.GET("/reputation/:entity", h.GetReputation)
	r.POST("/reputation/:entity/increase", h.IncreaseReputation)
	r.POST("/reputation/:entity/decrease", h.DecreaseReputation)

	r.GET("/ws", h.ServeEventFeed)
}

// respondError maps the common error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotApproved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrInvalidRating), errors.Is(err, common.ErrNoFeedback),
		errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
