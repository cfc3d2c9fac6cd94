package router

// ComposeMiddleware builds a chain from middleware and a final handler.
// Middleware runs in order (first to last), with the handler at the end.
func ComposeMiddleware(ctx Ctx, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx Ctx, next func() error) error {
		return ComposeMiddleware(ctx, middleware, next)
	})
}

// Only runs mw when condition holds and passes straight through otherwise.
func Only(condition func(ctx Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx Ctx, next func() error) error {
		if !condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}
