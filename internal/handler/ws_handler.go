package handler

import (
	"context"
	"net/http"

	"openbook_server/internal/infrastructure/middleware"
	"openbook_server/internal/service/presence"
	"openbook_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	registry  presence.Registry
	connTable *presence.ConnTable

	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Cross-origin is enforced at the gateway; the handshake itself
		// is authenticated by the bearer token.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// SetPresence injects the presence registry and this process's
// connection table. Called once at startup.
func SetPresence(r presence.Registry, t *presence.ConnTable) {
	registry = r
	connTable = t
}

// WsConnect handles GET /ws. The request passes JWTAuth first, so the
// user id is already authenticated; the socket is then upgraded,
// registered as the user's live session and pumped until disconnect.
// A new connection for the same user replaces the old registration.
func WsConnect(c *gin.Context) {
	userId := middleware.UserId(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("ws upgrade failed", zap.String("userId", userId), zap.Error(err))
		return
	}

	connId := uuid.NewString()
	uc := presence.NewUserConn(conn, userId, connId)
	connTable.Add(connId, uc)
	if err := registry.Register(c.Request.Context(), userId, connId); err != nil {
		zap.L().Error("presence register failed", zap.String("userId", userId), zap.Error(err))
		connTable.Remove(connId)
		uc.Close()
		return
	}

	go uc.WriteLoop()
	uc.ReadLoop() // blocks until the client goes away

	// The request context is gone once the client disconnects; the
	// unregister gets its own deadline. Compare-and-clear semantics
	// keep it from clobbering a newer session.
	ctx, cancel := context.WithTimeout(context.Background(), constants.DELIVER_TIMEOUT)
	defer cancel()
	if err := registry.Unregister(ctx, userId, connId); err != nil {
		zap.L().Warn("presence unregister failed", zap.String("userId", userId), zap.Error(err))
	}
	connTable.Remove(connId)
	uc.Close()
}
