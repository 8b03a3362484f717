package support

import (
	"context"

	"eventspace/internal/app/uow"
)

// Scope is a unit of work joined or started by a handler. Handlers that run
// behind the transaction middleware join its unit and never commit it
// themselves; handlers invoked directly own the unit they start.
type Scope struct {
	Unit uow.UnitOfWork
	Ctx  context.Context

	owned     bool
	committed bool
}

// Begin joins the unit in ctx or starts a new one with opts.
func Begin(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (*Scope, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return &Scope{Unit: unit, Ctx: ctx}, nil
	}
	if factory == nil {
		return nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Scope{Unit: unit, Ctx: uow.Bind(ctx, unit), owned: true}, nil
}

// Commit commits an owned unit. Joined units are committed by their owner.
func (s *Scope) Commit() error {
	if !s.owned || s.committed {
		return nil
	}
	if err := s.Unit.Commit(s.Ctx); err != nil {
		return err
	}
	s.committed = true
	return nil
}

// End rolls back an owned unit that was not committed.
func (s *Scope) End() {
	if s.owned && !s.committed {
		_ = s.Unit.Rollback(s.Ctx)
	}
}

func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	scope, err := Begin(ctx, factory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	return scope.Unit, scope.Ctx, scope.End, nil
}
