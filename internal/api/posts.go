package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onestop/forum-service/internal/forum"
)

// createPostRequest binds the post creation body
type createPostRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// updatePostRequest binds the post edit body; absent fields stay nil
type updatePostRequest struct {
	Category *string `json:"category"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
}

// voteRequest binds a vote body
type voteRequest struct {
	Value int16 `json:"value"`
}

func (r *Router) listPosts(c *gin.Context) {
	in := forum.ListPostsInput{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     intQuery(c, "page"),
		Limit:    limitQuery(c),
	}

	posts, total, page, err := r.threads.ListPosts(c.Request.Context(), in)
	if err != nil {
		respondForumError(c, err, "Failed to fetch forum posts", r.development)
		return
	}
	respondList(c, posts, page, total)
}

func (r *Router) getPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, comments, err := r.threads.GetPost(c.Request.Context(), id)
	if err != nil {
		respondForumError(c, err, "Failed to fetch forum post", r.development)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}

func (r *Router) createPost(c *gin.Context) {
	user, _ := currentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := r.threads.CreatePost(c.Request.Context(), user, forum.CreatePostInput{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		respondForumError(c, err, "Failed to create forum post", r.development)
		return
	}
	respondSuccess(c, http.StatusCreated, post)
}

func (r *Router) updatePost(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := r.threads.UpdatePost(c.Request.Context(), id, user, forum.UpdatePostInput{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		respondForumError(c, err, "Failed to update forum post", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

func (r *Router) deletePost(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := r.threads.DeletePost(c.Request.Context(), id, user)
	if err != nil {
		respondForumError(c, err, "Failed to delete forum post", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

func (r *Router) lockPost(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := r.threads.LockPost(c.Request.Context(), id, user)
	if err != nil {
		respondForumError(c, err, "Failed to lock forum post", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

func (r *Router) unlockPost(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := r.threads.UnlockPost(c.Request.Context(), id, user)
	if err != nil {
		respondForumError(c, err, "Failed to unlock forum post", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

func (r *Router) votePost(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := r.ledger.VotePost(c.Request.Context(), id, user, req.Value)
	if err != nil {
		respondForumError(c, err, "Failed to vote on forum post", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

// idParam parses the :id path parameter
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter; malformed values
// are ignored rather than rejected.
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// limitQuery parses the limit parameter. An absent or malformed limit
// falls back to the default page size; an explicit limit below 1 clamps
// to the minimum.
func limitQuery(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	if v < 1 {
		return -1
	}
	return v
}
