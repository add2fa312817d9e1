package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onestop/forum-service/internal/forum"
)

// Pagination describes the page window of a list response
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Count int64 `json:"count"`
}

// Envelope is the standard response body
type Envelope struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Detail     string      `json:"detail,omitempty"`
}

func respondSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Envelope{Status: "success", Data: data})
}

func respondList(c *gin.Context, data interface{}, page forum.Page, count int64) {
	c.JSON(http.StatusOK, Envelope{
		Status: "success",
		Data:   data,
		Pagination: &Pagination{
			Page:  page.Number,
			Limit: page.Limit,
			Count: count,
		},
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: "error", Message: message})
}

// respondForumError maps a forum error onto the HTTP taxonomy. Unexpected
// errors surface as a generic 500; their detail is attached only in a
// development environment.
func respondForumError(c *gin.Context, err error, fallback string, development bool) {
	switch forum.KindOf(err) {
	case forum.KindValidation:
		respondError(c, http.StatusBadRequest, err.Error())
	case forum.KindForbidden:
		respondError(c, http.StatusForbidden, err.Error())
	case forum.KindNotFound:
		respondError(c, http.StatusNotFound, err.Error())
	default:
		body := Envelope{Status: "error", Message: fallback}
		if development {
			body.Detail = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
