package rpc

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/reqid"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ DocumentServiceServer = (*DocumentHandler)(nil)

// DocumentHandler exposes a docstore.Store over gRPC.
type DocumentHandler struct {
	store  docstore.Store
	logger logger.ZapLogger
}

func NewDocumentHandler(store docstore.Store, log logger.ZapLogger) *DocumentHandler {
	return &DocumentHandler{store: store, logger: log}
}

func (h *DocumentHandler) Get(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error) {
	snap, err := h.store.Get(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	v, err := structpb.NewValue(snap.Value)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return v, nil
}

func (h *DocumentHandler) Set(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()
	path := fields["path"].GetStringValue()
	if path == "" {
		return nil, status.Error(codes.InvalidArgument, "missing path")
	}
	var value any
	if v, ok := fields["value"]; ok {
		value = v.AsInterface()
	}
	if err := h.store.Write(ctx, path, value); err != nil {
		h.logger.Error("failed to write document", zap.String("path", path), zap.Error(err))
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *DocumentHandler) Remove(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := h.store.Remove(ctx, req.GetValue()); err != nil {
		h.logger.Error("failed to remove document", zap.String("path", req.GetValue()), zap.Error(err))
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *DocumentHandler) Watch(req *wrapperspb.StringValue, stream grpc.ServerStream) error {
	ctx := stream.Context()
	updates := make(chan docstore.Snapshot, 16)
	failures := make(chan error, 1)

	unsubscribe, err := h.store.Subscribe(req.GetValue(),
		func(s docstore.Snapshot) {
			select {
			case updates <- s:
			case <-ctx.Done():
			}
		},
		func(err error) {
			select {
			case failures <- err:
			default:
			}
		},
	)
	if err != nil {
		return toStatus(err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-failures:
			return toStatus(err)
		case snap := <-updates:
			v, err := structpb.NewValue(snap.Value)
			if err != nil {
				return status.Error(codes.Internal, err.Error())
			}
			if err := stream.SendMsg(v); err != nil {
				return err
			}
		}
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, docstore.ErrInvalidPath):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, docstore.ErrUnavailable), errors.Is(err, docstore.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor logs every unary call with its duration.
func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", reqid.Get(ctx)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			log.Warn("gRPC call failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("gRPC call", fields...)
		}
		return resp, err
	}
}
