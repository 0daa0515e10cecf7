package bill

import "context"

// Resolver looks up the bill for a normalized reference.
//
// Implementations return *errors.ResolutionError for lookup failures and
// must honor ctx cancellation.
type Resolver interface {
	Resolve(ctx context.Context, reference string) (Record, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, reference string) (Record, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, reference string) (Record, error) {
	return f(ctx, reference)
}
