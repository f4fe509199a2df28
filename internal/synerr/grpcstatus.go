package synerr

import (
	"fmt"
	"runtime"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus maps an engine error onto a gRPC status, the Go equivalent of the
// original server's `status!` macro which stamped internal errors with
// file/line context for observability.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		return internalStatus(err)
	}
	switch e.Kind {
	case KindCatalogNotFound, KindSchemaNotFound, KindTableNotFound, KindMissingTicket:
		return status.Error(codes.NotFound, e.Error())
	case KindAlreadyExists:
		return status.Error(codes.AlreadyExists, e.Error())
	case KindInvalidToken, KindInvalidArgument, KindMissingEndpoint:
		return status.Error(codes.InvalidArgument, e.Error())
	case KindDecodeError:
		return status.Error(codes.InvalidArgument, e.Error())
	case KindUnimplemented:
		return status.Error(codes.Unimplemented, e.Error())
	case KindPlan:
		return status.Error(codes.InvalidArgument, e.Error())
	case KindStreamError, KindServerError:
		return internalStatus(e)
	default:
		return internalStatus(e)
	}
}

// internalStatus stamps an unexpected failure with the origin file/line,
// mirroring: Status::internal(format!("{}: {} at {}:{}", desc, err, file!(), line!()))
func internalStatus(err error) error {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(codes.Internal, fmt.Sprintf("%s at %s:%d", err.Error(), file, line))
}
