/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, and starting the connection session's lifecycle.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"routeshare/internal/app/realtime"
	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/limiter"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Every accepted connection starts as an unbound session; the client must send a
// register-user event before chat or typing events are accepted. A reconnecting
// client goes through exactly the same path: no session state survives a disconnect.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		// When reconnection recovery is configured to not skip auth, the
		// upgrade request itself must carry a valid identity token.
		if !deps.Config.RecoverySkipAuth {
			if jwt.GetPayloadFromContext(r) == nil {
				logx.Warn("WebSocket connection rejected: Missing identity.", "ip", ip)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		sess := realtime.NewSession(deps.Gateway, conn)

		go sess.WritePump()

		logx.Info("WebSocket connection established", "handle", sess.Handle())

		sess.ReadPump()
	}
}
