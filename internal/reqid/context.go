// Package reqid carries a request id from the HTTP edge through the use cases
// to the remote store, so one operator action can be followed across logs.
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	Header = "X-Request-Id"
	mdKey  = "x-request-id"
)

type ctxKey struct{}

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Get returns the id stored by the middleware or, on a gRPC server, the one
// sent in the incoming metadata.
func Get(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(mdKey); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// Outgoing attaches the id to ctx for a gRPC call.
func Outgoing(ctx context.Context) context.Context {
	if id := Get(ctx); id != "" {
		return metadata.AppendToOutgoingContext(ctx, mdKey, id)
	}
	return ctx
}

// Middleware reuses the caller's X-Request-Id or makes a new one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(With(r.Context(), id)))
	})
}

func UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := Get(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		return handler(With(ctx, id), req)
	}
}
