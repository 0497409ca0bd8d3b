package form

import "context"

// Navigator is told where to go once a record is stored. It carries no
// payload; the next stage reads the record back from the Store.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

type NavigatorFunc func(ctx context.Context, route string) error

func (f NavigatorFunc) Navigate(ctx context.Context, route string) error {
	return f(ctx, route)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) error { return nil }
