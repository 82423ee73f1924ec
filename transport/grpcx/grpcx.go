// Package grpcx adapts gRPC unary calls to the pipeline. Inbound metadata
// becomes the event header map, the full method becomes the event path, and
// short-circuit statuses map back to gRPC status codes.
package grpcx

import (
	"context"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	gf "github.com/Keksclan/goFlowSquirrel"
	"github.com/Keksclan/goFlowSquirrel/dispatch"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// EventFromCall builds a pipeline event from an inbound unary call. Metadata
// values are flattened to their first entry; the peer address, when known,
// becomes the event's remote address.
func EventFromCall(ctx context.Context, fullMethod string) flow.Event {
	header := make(map[string]string)
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for name, vals := range md {
			if len(vals) > 0 {
				header[name] = vals[0]
			}
		}
	}

	remote := ""
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		remote = p.Addr.String()
	}

	return flow.Event{
		Method:     "POST",
		Path:       fullMethod,
		Header:     header,
		Params:     map[string]string{},
		RemoteAddr: remote,
	}
}

// UnaryInterceptor runs every unary call through the pipeline before invoking
// the service method. A chain failure or a short-circuited response aborts the
// call with the corresponding gRPC status; otherwise the call proceeds
// normally and the pipeline response is discarded.
func UnaryInterceptor(d *dispatch.Dispatcher, p *gf.Pipeline) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		res := d.Dispatch(p, EventFromCall(ctx, info.FullMethod))
		if res.Err != nil {
			return nil, status.Errorf(codes.Internal, "pipeline stage %s: %v", flow.StageOf(res.Err), res.Err)
		}

		if st := res.Ctx.Status(); st >= 400 {
			return nil, status.Error(codeForStatus(st), string(res.Ctx.Response().Body))
		}
		return handler(ctx, req)
	}
}

// codeForStatus maps short-circuit HTTP statuses onto gRPC codes.
func codeForStatus(st int) codes.Code {
	switch st {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
