package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (r *Router) listNotifications(c *gin.Context) {
	user, _ := currentUser(c)

	notifs, total, page, err := r.notifier.List(c.Request.Context(), user.ID, intQuery(c, "page"), limitQuery(c))
	if err != nil {
		respondForumError(c, err, "Failed to fetch notifications", r.development)
		return
	}
	respondList(c, notifs, page, total)
}

func (r *Router) unreadNotifications(c *gin.Context) {
	user, _ := currentUser(c)

	count, err := r.notifier.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		respondForumError(c, err, "Failed to count unread notifications", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"unread": count})
}

func (r *Router) markNotificationRead(c *gin.Context) {
	user, _ := currentUser(c)

	id, ok := idParam(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}

	notif, err := r.notifier.MarkRead(c.Request.Context(), id, user.ID)
	if err != nil {
		respondForumError(c, err, "Failed to mark notification read", r.development)
		return
	}
	respondSuccess(c, http.StatusOK, notif)
}
