package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterBusiness creates a business and emails it its access token.
func (h *Handler) RegisterBusiness(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	business, err := h.Businesses.Register(req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": business.ID})
}

// ListBusinesses filters by the optional name query parameter.
func (h *Handler) ListBusinesses(c *gin.Context) {
	businesses, err := h.Businesses.List(c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, businesses)
}

func (h *Handler) GetBusiness(c *gin.Context) {
	business, err := h.Businesses.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (h *Handler) DeleteBusiness(c *gin.Context) {
	if err := h.Businesses.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "business deleted"})
}

// AddBusinessUser attaches a user to a business via its access token.
func (h *Handler) AddBusinessUser(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Token  string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	business, err := h.Businesses.AddUser(req.UserID, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (h *Handler) RemoveBusinessUser(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Token  string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	business, err := h.Businesses.RemoveUser(req.UserID, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

// GetUserBusinesses lists the businesses the user is attached to.
func (h *Handler) GetUserBusinesses(c *gin.Context) {
	businesses, err := h.Businesses.ForUser(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, businesses)
}

// GetBusinessPetitions lists every petition targeting the business.
func (h *Handler) GetBusinessPetitions(c *gin.Context) {
	petitions, err := h.Petitions.List(c.Param("id"), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petitions)
}

func (h *Handler) GetApprovedBusinessPetitions(c *gin.Context) {
	petitions, err := h.Petitions.ListByApproval(c.Param("id"), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petitions)
}

func (h *Handler) GetUnapprovedBusinessPetitions(c *gin.Context) {
	petitions, err := h.Petitions.ListByApproval(c.Param("id"), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petitions)
}

// GetBadges returns the business's badge set.
func (h *Handler) GetBadges(c *gin.Context) {
	badges, err := h.Badges.List(c.Param("owner"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

// AddBadge is administrative; the workflow is the normal award path.
func (h *Handler) AddBadge(c *gin.Context) {
	if err := h.Badges.Add(c.Param("owner"), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "badge added"})
}

func (h *Handler) RemoveBadge(c *gin.Context) {
	if err := h.Badges.Remove(c.Param("owner"), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "badge removed"})
}

func (h *Handler) GetReputation(c *gin.Context) {
	score, err := h.Reputation.Get(c.Param("entity"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// IncreaseReputation is the administrative +1.
func (h *Handler) IncreaseReputation(c *gin.Context) {
	score, err := h.Reputation.Update(c.Param("entity"), 1)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// DecreaseReputation is the administrative -1.
func (h *Handler) DecreaseReputation(c *gin.Context) {
	score, err := h.Reputation.Update(c.Param("entity"), -1)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}
