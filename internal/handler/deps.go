package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"exnebula/internal/app/chat"
	"exnebula/internal/app/storage"
	"exnebula/internal/app/store"
	"exnebula/internal/app/user"
	"exnebula/internal/configs"
	"exnebula/internal/pkg/auth/token"
)

type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
	Store  *store.Store
	Assets storage.AssetService
	Codec  *token.Codec
}

// identityResolver adapts the user store to the token.Resolver interface so
// the auth gate can map a token subject to a live account.
type identityResolver struct {
	store *store.Store
}

func (ir *identityResolver) FindBySubjectID(ctx context.Context, subjectID string) (user.Identity, error) {
	id, err := uuid.Parse(subjectID)
	if err != nil {
		// A syntactically invalid subject can never match an account.
		return user.Identity{}, token.ErrUnknownSubject
	}

	u, err := ir.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return user.Identity{}, token.ErrUnknownSubject
		}
		return user.Identity{}, err
	}

	return user.Identity{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}, nil
}

// Resolver returns the store-backed subject resolver used by both the HTTP
// auth gate and the WebSocket session bootstrap.
func (deps *AppDeps) Resolver() token.Resolver {
	return &identityResolver{store: deps.Store}
}
