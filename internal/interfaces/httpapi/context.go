package httpapi

import "context"

type contextKey string

const routeContextKey contextKey = "route_pattern"

// routeHolder is filled in by the router once the mux has matched the request, so
// outer middleware can label logs and metrics by pattern instead of raw path.
type routeHolder struct {
	pattern string
}

func withRouteHolder(ctx context.Context) (context.Context, *routeHolder) {
	holder := &routeHolder{}
	return context.WithValue(ctx, routeContextKey, holder), holder
}

func routeFromContext(ctx context.Context) string {
	holder, ok := ctx.Value(routeContextKey).(*routeHolder)
	if !ok || holder.pattern == "" {
		return "unmatched"
	}
	return holder.pattern
}

func setRoute(ctx context.Context, pattern string) {
	if holder, ok := ctx.Value(routeContextKey).(*routeHolder); ok {
		holder.pattern = pattern
	}
}
