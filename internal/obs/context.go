package obs

import "context"

type ctxKey string

const routePatternKey ctxKey = "obs/route-pattern"

// WithRoutePattern stores the matched chi route pattern on the context.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey, pattern)
}

// RoutePatternFromContext returns the matched route pattern if one was recorded.
func RoutePatternFromContext(ctx context.Context) string {
	v := ctx.Value(routePatternKey)
	if v == nil {
		return ""
	}
	pattern, _ := v.(string)
	return pattern
}
