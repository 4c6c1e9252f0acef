package handler

import (
	"net/http"

	"openbook_server/internal/dto/respond"
	"openbook_server/internal/infrastructure/middleware"
	"openbook_server/internal/model"
	"openbook_server/internal/service"
	"openbook_server/internal/service/friendship"
	"openbook_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// AddFriend handles POST /friend/add/:userId. One endpoint drives the
// whole forward half of the state machine: it creates a pending
// request toward a stranger and accepts a pending request received
// from the target.
func AddFriend(c *gin.Context) {
	actor := middleware.UserId(c)
	target := c.Param("userId")
	if target == "" || target == actor {
		HandleError(c, errInvalidTarget)
		return
	}

	outcome, err := service.Svc.Friendship.AddOrAccept(actor, target)
	if err != nil {
		HandleError(c, err)
		return
	}
	switch outcome {
	case friendship.OutcomeCreated:
		HandleSuccess(c, http.StatusCreated, gin.H{"status": model.StatusRequested})
	case friendship.OutcomeAccepted:
		HandleSuccess(c, http.StatusOK, gin.H{"status": model.StatusFriend})
	case friendship.OutcomeAlreadyFriends:
		conflict(c, string(model.StatusFriend), "already friends")
	case friendship.OutcomeAlreadyRequested:
		// Re-sending your own pending request is refused, not a conflict.
		HandleError(c, errorx.ErrForbidden)
	default:
		HandleError(c, errUnknownOutcome)
	}
}

// RemoveFriend handles DELETE /friend/remove/:userId. Cancel, deny
// and unfriend all land here; removing an edge that never existed is
// reported as not found.
func RemoveFriend(c *gin.Context) {
	actor := middleware.UserId(c)
	target := c.Param("userId")
	if target == "" || target == actor {
		HandleError(c, errInvalidTarget)
		return
	}
	outcome, err := service.Svc.Friendship.Remove(actor, target)
	if err != nil {
		HandleError(c, err)
		return
	}
	if outcome == friendship.OutcomeNotFound {
		HandleError(c, errorx.ErrNotFound)
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{"status": model.StatusStranger})
}

// FriendshipStatus handles GET /friend/status/:userId.
func FriendshipStatus(c *gin.Context) {
	viewer := middleware.UserId(c)
	subject := c.Param("userId")
	status, err := service.Svc.Friendship.StatusOf(viewer, subject)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, respond.FriendshipStatusRespond{Status: string(status)})
}

// Friends handles GET /friend and returns the caller's friend list.
func Friends(c *gin.Context) {
	out, err := service.Svc.Friendship.Friends(middleware.UserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}
