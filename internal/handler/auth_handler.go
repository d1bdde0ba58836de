/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"exnebula/internal/app/store"
	"exnebula/internal/pkg/auth/token"
	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/req"
	"exnebula/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister processes the request to create a new user account.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Name = strings.TrimSpace(input.Name)
		input.Email = strings.TrimSpace(input.Email)

		if utf8.RuneCountInString(input.Name) < 2 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidName))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 72 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		u, err := deps.Store.CreateUser(r.Context(), store.CreateUserParams{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				logx.Warn("registration conflict: email already exists", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		tokenString, err := deps.Codec.Issue(u.ID.String(), u.Name, token.IdentityExpiration)
		if err != nil {
			logx.Error(err, "failed to issue token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user": map[string]any{
				"id":    u.ID.String(),
				"name":  u.Name,
				"email": u.Email,
			},
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a signed token.
// Unknown email and wrong password answer identically so the endpoint
// does not leak which accounts exist.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u, err := deps.Store.GetUserByEmail(r.Context(), strings.TrimSpace(input.Email))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		tokenString, err := deps.Codec.Issue(u.ID.String(), u.Name, token.IdentityExpiration)
		if err != nil {
			logx.Error(err, "failed to issue token after login", "user_id", u.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user": map[string]any{
				"id":    u.ID.String(),
				"name":  u.Name,
				"email": u.Email,
			},
		})
	}
}

// HandleMe returns the authenticated account with its learning preferences.
func HandleMe(deps *AppDeps) http.HandlerFunc {
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

		u, err := deps.Store.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrSubjectNotFound))
				return
			}
			logx.Error(err, "failed to load account", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": map[string]any{
				"id":        u.ID.String(),
				"name":      u.Name,
				"email":     u.Email,
				"avatarKey": u.AvatarKey,
				"preferences": map[string]string{
					"learningStyle": u.LearningStyle,
					"difficulty":    u.Difficulty,
				},
				"createdAt": u.CreatedAt.Format(time.RFC3339),
			},
		})
	}
}
