package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voxpop/backend/internal/petition"
)

// CreatePetition opens a petition in the caller's name.
func (h *Handler) CreatePetition(c *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required"`
		Problem   string `json:"problem" binding:"required"`
		Solution  string `json:"solution" binding:"required"`
		Topic     string `json:"topic" binding:"required"`
		Target    string `json:"target" binding:"required"`
		Threshold int    `json:"threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.Store.GetUserByID(callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.Petitions.Create(petition.CreateInput{
		Title:     req.Title,
		Problem:   req.Problem,
		Solution:  req.Solution,
		Topic:     req.Topic,
		Target:    req.Target,
		Creator:   user.Username,
		Threshold: req.Threshold,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListPetitions filters by optional target and creator query parameters.
func (h *Handler) ListPetitions(c *gin.Context) {
	petitions, err := h.Petitions.List(c.Query("target"), c.Query("creator"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petitions)
}

// SearchPetitions splits the q parameter into words; every word must match.
func (h *Handler) SearchPetitions(c *gin.Context) {
	words := strings.Fields(c.Query("q"))
	petitions, err := h.Petitions.Search(words)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petitions)
}

func (h *Handler) GetPetition(c *gin.Context) {
	found, err := h.Petitions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) DeletePetition(c *gin.Context) {
	if err := h.Petitions.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "petition deleted"})
}

// IsApproved reports the >= approval predicate.
func (h *Handler) IsApproved(c *gin.Context) {
	approved, err := h.Petitions.IsApproved(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved})
}

// Sign records the caller's signature. The signer in the path must be the
// caller; the orchestrator enforces the match.
func (h *Handler) Sign(c *gin.Context) {
	count, err := h.Orch.Sign(callerID(c), c.Param("id"), c.Param("signerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signatures": count})
}

func (h *Handler) Unsign(c *gin.Context) {
	if err := h.Orch.Unsign(callerID(c), c.Param("id"), c.Param("signerId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "signature removed"})
}

func (h *Handler) GetSignatures(c *gin.Context) {
	signers, err := h.Signatures.Signers(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signers": signers})
}

func (h *Handler) IsSigning(c *gin.Context) {
	signing, err := h.Signatures.IsSigning(c.Param("id"), c.Param("signerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signing": signing})
}
