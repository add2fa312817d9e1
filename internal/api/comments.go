package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onestop/forum-service/internal/forum"
)

// createCommentRequest binds the comment creation body
type createCommentRequest struct {
	ParentID *int64 `json:"parent_id"`
	Content  string `json:"content"`
}

func (r *Router) createComment(c *gin.Context) {
	user, _ := currentUser(c)

	postID, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := r.threads.CreateComment(c.Request.Context(), user, postID, forum.CreateCommentInput{
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		respondForumError(c, err, "Failed to create comment", r.development)
		return
	}
	respondSuccess(c, http.StatusCreated, comment)
}

func (r *Router) deleteComment(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Comment not found")
		return
	}

	comment, err := r.threads.DeleteComment(c.Request.Context(), id, user)
	if err != nil {
		respondForumError(c, err, "Failed to delete comment", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, comment)
}

func (r *Router) voteComment(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Comment not found")
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := r.ledger.VoteComment(c.Request.Context(), id, user, req.Value)
	if err != nil {
		respondForumError(c, err, "Failed to vote on comment", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, comment)
}
