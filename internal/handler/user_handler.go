package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"exnebula/internal/app/path"
	"exnebula/internal/pkg/auth/token"
	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/randx"
	"exnebula/internal/pkg/req"
	"exnebula/internal/pkg/resp"
)

const (
	maxAvatarBytes    = 5 << 20 // 5 MB
	presignExpiration = 15 * time.Minute
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var allowedLearningStyles = map[string]struct{}{
	"visual":      {},
	"auditory":    {},
	"kinesthetic": {},
	"reading":     {},
}

type PresignAvatarInput struct {
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// HandlePresignAvatar hands the caller a short-lived upload URL for a new
// avatar and records the object key on their account. The file itself goes
// straight to the bucket.
func HandlePresignAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := token.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingCredential))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ext, ok := allowedAvatarTypes[input.MimeType]
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "unsupported avatar mime type"))
			return
		}

		if input.Size <= 0 || input.Size > maxAvatarBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "avatar size out of range"))
			return
		}

		suffix, err := randx.Suffix(12)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		key := fmt.Sprintf("avatars/%s/%s%s", identity.ID, suffix, ext)

		uploadURL, err := deps.Assets.PresignUpload(r.Context(), key, input.MimeType, input.Size, presignExpiration)
		if err != nil {
			logx.Error(err, "failed to presign avatar upload", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		userID, err := uuid.Parse(identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.UpdateAvatarKey(r.Context(), userID, key); err != nil {
			logx.Error(err, "failed to record avatar key", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": uploadURL,
			"key":       key,
			"expiresIn": int(presignExpiration.Seconds()),
		})
	}
}

type UpdatePreferencesInput struct {
	LearningStyle string `json:"learningStyle"`
	Difficulty    string `json:"difficulty"`
}

// HandleUpdatePreferences stores the caller's learning style and preferred
// difficulty.
func HandleUpdatePreferences(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := token.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingCredential))
			return
		}

		var input UpdatePreferencesInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.LearningStyle = strings.ToLower(strings.TrimSpace(input.LearningStyle))
		input.Difficulty = strings.ToLower(strings.TrimSpace(input.Difficulty))

		if _, ok := allowedLearningStyles[input.LearningStyle]; !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "unknown learning style"))
			return
		}

		if !path.ValidDifficulty(input.Difficulty) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "unknown difficulty"))
			return
		}

		userID, err := uuid.Parse(identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.UpdatePreferences(r.Context(), userID, input.LearningStyle, input.Difficulty); err != nil {
			logx.Error(err, "failed to update preferences", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"learningStyle": input.LearningStyle,
			"difficulty":    input.Difficulty,
		})
	}
}
