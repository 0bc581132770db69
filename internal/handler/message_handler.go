/*
Package handler provides the HTTP surface for chat message history.

Live chat flows over the realtime gateway; this handler is the pull path a
client uses on reconnect to recover messages that arrived while it was offline.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"routeshare/internal/app/message"
	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/resp"
)

const (
	defaultConversationLimit = 100
	maxConversationLimit     = 500
)

// HandleConversation returns the message history between the authenticated
// user and the peer named in the URL, oldest first.
func HandleConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		peerID := chi.URLParam(r, "peerID")
		if peerID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		limit := defaultConversationLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 || parsed > maxConversationLimit {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			limit = parsed
		}

		messages, err := deps.Messages.Conversation(r.Context(), identity.ID, peerID, limit)
		if err != nil {
			logx.Error(err, "failed to load conversation", "user_id", identity.ID, "peer_id", peerID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if messages == nil {
			messages = []message.Message{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}
