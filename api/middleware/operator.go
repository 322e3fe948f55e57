package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/barstockapp/barstock-backend/pkg/logger"
)

const operatorHeader = "X-Operator-Id"

type operatorCtxKey struct{}

// Operator lifts the optional X-Operator-Id header into the request context so
// audit rows can name who triggered the movement.
func Operator(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator := strings.TrimSpace(r.Header.Get(operatorHeader))
			if operator == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), operatorCtxKey{}, operator)
			if logg != nil {
				ctx = logg.WithOperator(ctx, operator)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func OperatorFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(operatorCtxKey{}).(string); ok {
		return value
	}
	return ""
}
