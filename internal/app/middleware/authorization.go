package middleware

import (
	"context"
	"errors"
	"strings"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/queries"
)

var (
	ErrUnauthenticated = errors.New("middleware: caller identity required")
	ErrForbidden       = errors.New("middleware: caller is not allowed to perform this action")
)

const RoleAdmin = "admin"

// Actor identifies the caller as asserted by the upstream gateway.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, RoleAdmin)
}

// ActorScoped messages require a caller identity.
type ActorScoped interface {
	Caller() Actor
}

// RoleScoped messages additionally require a role.
type RoleScoped interface {
	ActorScoped
	RequiredRole() string
}

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// ActorAuthorizer checks that scoped messages carry a caller and, when a
// role is demanded, that the caller holds it.
type ActorAuthorizer struct{}

func (ActorAuthorizer) Authorize(_ context.Context, message any) error {
	scoped, ok := message.(ActorScoped)
	if !ok {
		return nil
	}
	actor := scoped.Caller()
	if strings.TrimSpace(actor.ID) == "" {
		return ErrUnauthenticated
	}
	if rs, ok := message.(RoleScoped); ok {
		if required := rs.RequiredRole(); required != "" && !strings.EqualFold(actor.Role, required) {
			return ErrForbidden
		}
	}
	return nil
}

func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := a.Authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := a.Authorize(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}
