package handler

import (
	"net/http"
	"strings"
	"time"

	"exnebula/internal/app/mentor"
	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/req"
	"exnebula/internal/pkg/resp"
)

type MentorChatInput struct {
	Message string `json:"message"`
}

// HandleMentorChat answers a learner question with a mentor reply.
func HandleMentorChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input MentorChatInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Message = strings.TrimSpace(input.Message)
		if input.Message == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "message is required"))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"reply":     mentor.Respond(input.Message),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
