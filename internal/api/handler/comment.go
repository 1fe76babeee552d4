package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samadhan/backend/internal/apperrors"
)

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment posts a comment on a complaint. Comments from officers and
// admins carry the official flag.
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid body: %v", err))
		return
	}

	comment, err := h.Complaints.AddComment(c.Param("id"), req.Content, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusCreated, "comment.created", comment)
}

// EditComment replaces the text of one comment. Authors edit their own;
// moderators may edit any.
func (h *Handler) EditComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid body: %v", err))
		return
	}

	comment, err := h.Complaints.EditComment(c.Param("id"), c.Param("commentId"), req.Content, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, "comment.updated", comment)
}

// ListComments serves a complaint's comments oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.Complaints.Comments(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": comments})
}
