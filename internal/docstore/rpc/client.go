package rpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/reqid"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a docstore.Store backed by a remote DocumentService.
type Client struct {
	conn   grpc.ClientConnInterface
	closer func() error
	ids    *docstore.IDGenerator
	logger logger.ZapLogger
}

var _ docstore.Store = (*Client)(nil)

func Dial(addr string, ids *docstore.IDGenerator, log logger.ZapLogger) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	c := NewClient(conn, ids, log)
	c.closer = conn.Close
	return c, nil
}

func NewClient(conn grpc.ClientConnInterface, ids *docstore.IDGenerator, log logger.ZapLogger) *Client {
	return &Client{conn: conn, ids: ids, logger: log}
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *Client) Subscribe(path string, onData func(docstore.Snapshot), onError func(error)) (docstore.Unsubscribe, error) {
	segs, err := docstore.SplitPath(path)
	if err != nil {
		return nil, err
	}
	path = docstore.Join(segs...)
	if onError == nil {
		onError = func(error) {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := c.conn.NewStream(ctx, &DocumentServiceDesc.Streams[0], watchMethod)
	if err != nil {
		cancel()
		return nil, fromStatus(err)
	}
	if err := stream.SendMsg(wrapperspb.String(path)); err != nil {
		cancel()
		return nil, fromStatus(err)
	}
	if err := stream.CloseSend(); err != nil {
		cancel()
		return nil, fromStatus(err)
	}

	go func() {
		for {
			v := new(structpb.Value)
			if err := stream.RecvMsg(v); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warn("document watch ended", zap.String("path", path), zap.Error(err))
				onError(fromStatus(err))
				return
			}
			if ctx.Err() != nil {
				return
			}
			onData(docstore.Snapshot{Path: path, Value: v.AsInterface()})
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

func (c *Client) Get(ctx context.Context, path string) (docstore.Snapshot, error) {
	out := new(structpb.Value)
	if err := c.conn.Invoke(reqid.Outgoing(ctx), getMethod, wrapperspb.String(path), out); err != nil {
		return docstore.Snapshot{}, fromStatus(err)
	}
	return docstore.Snapshot{Path: path, Value: out.AsInterface()}, nil
}

func (c *Client) Write(ctx context.Context, path string, value any) error {
	val, err := docstore.Normalize(value)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}
	req, err := structpb.NewStruct(map[string]any{"path": path, "value": val})
	if err != nil {
		return err
	}
	return fromStatus(c.conn.Invoke(reqid.Outgoing(ctx), setMethod, req, new(emptypb.Empty)))
}

func (c *Client) Remove(ctx context.Context, path string) error {
	return fromStatus(c.conn.Invoke(reqid.Outgoing(ctx), removeMethod, wrapperspb.String(path), new(emptypb.Empty)))
}

func (c *Client) GenerateID(string) string {
	return c.ids.Next()
}

func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", docstore.ErrUnavailable, err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", docstore.ErrInvalidPath, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", docstore.ErrUnavailable, st.Message())
	default:
		return err
	}
}
