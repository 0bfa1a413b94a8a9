package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubmitFeedback upserts the caller's feedback on a response; the workflow
// takes care of the one-shot evaluation.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	// Rating binds to a pointer so a zero value passes the presence check;
	// the aggregator's configured bounds are the only range gate.
	var req struct {
		Comment  string   `json:"comment"`
		Rating   *float64 `json:"rating" binding:"required"`
		Decision bool     `json:"decision"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := callerID(c)
	err := h.Orch.SubmitFeedback(actor, actor, c.Param("id"), req.Comment, *req.Rating, req.Decision)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "feedback recorded"})
}

func (h *Handler) RetractFeedback(c *gin.Context) {
	actor := callerID(c)
	if err := h.Orch.RetractFeedback(actor, actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "feedback removed"})
}

func (h *Handler) GetAllFeedback(c *gin.Context) {
	fbs, err := h.Feedback.All(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fbs)
}

func (h *Handler) GetOwnFeedback(c *gin.Context) {
	fb, err := h.Feedback.ForUser(callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fb)
}

func (h *Handler) GetAverageRating(c *gin.Context) {
	avg, err := h.Feedback.AverageRating(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": avg})
}

func (h *Handler) GetFeedbackState(c *gin.Context) {
	state, err := h.Feedback.State(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
