package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
)

// CreateResponse lets a business reply to an approved petition. The access
// token identifies the business, which must be the petition's target.
func (h *Handler) CreateResponse(c *gin.Context) {
	var req struct {
		Concern string              `json:"concern" binding:"required"`
		Content string              `json:"content" binding:"required"`
		Type    models.ResponseType `json:"type" binding:"required"`
		Token   string              `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	business, err := h.Store.GetBusinessByToken(req.Token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondError(c, common.ErrInvalidToken)
			return
		}
		respondError(c, err)
		return
	}
	pet, err := h.Petitions.Get(req.Concern)
	if err != nil {
		respondError(c, err)
		return
	}
	if pet.Target != business.ID {
		respondError(c, common.ErrUnauthorized)
		return
	}
	resp, err := h.Orch.Respond(req.Concern, req.Content, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetResponse(c *gin.Context) {
	resp, err := h.Responses.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetResponseByConcern treats "no response yet" as a legitimate state and
// answers 200 with a null body rather than 404.
func (h *Handler) GetResponseByConcern(c *gin.Context) {
	resp, err := h.Responses.ByConcern(c.Param("petitionId"))
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteResponse(c *gin.Context) {
	if err := h.Responses.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "response deleted"})
}

// GetBusinessResponses returns every response issued for the business's
// petitions.
func (h *Handler) GetBusinessResponses(c *gin.Context) {
	petitions, err := h.Petitions.List(c.Param("id"), "")
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]models.Response, 0)
	for _, pet := range petitions {
		resp, err := h.Responses.ByConcern(pet.ID)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, *resp)
	}
	c.JSON(http.StatusOK, responses)
}
