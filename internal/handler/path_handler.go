package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"exnebula/internal/app/path"
	"exnebula/internal/app/store"
	"exnebula/internal/pkg/auth/token"
	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/req"
	"exnebula/internal/pkg/resp"
)

type GeneratePathInput struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Duration   string `json:"duration"`
}

// HandleGeneratePath builds a learning-path outline for the caller and
// persists it to their account.
func HandleGeneratePath(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := token.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingCredential))
			return
		}

		var input GeneratePathInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Topic = strings.TrimSpace(input.Topic)
		if input.Topic == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "topic is required"))
			return
		}

		userID, err := uuid.Parse(identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		outline := path.Generate(input.Topic, input.Difficulty, input.Duration)

		saved, err := deps.Store.AddLearningPath(r.Context(), store.AddLearningPathParams{
			UserID:      userID,
			Title:       outline.Title,
			Description: outline.Description,
			Modules:     outline.Modules,
		})
		if err != nil {
			logx.Error(err, "failed to persist learning path", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"path": saved})
	}
}

// HandleListPaths returns the caller's saved learning paths, newest first.
func HandleListPaths(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := token.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingCredential))
			return
		}

		userID, err := uuid.Parse(identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		paths, err := deps.Store.ListLearningPaths(r.Context(), userID)
		if err != nil {
			logx.Error(err, "failed to list learning paths", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"paths": paths})
	}
}
