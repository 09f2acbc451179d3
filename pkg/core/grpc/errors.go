package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	resberror "github.com/msto63/resb/foundation/core/error"
)

var codeToStatus = map[resberror.Code]codes.Code{
	resberror.CodeNotFound:              codes.NotFound,
	resberror.CodeResourceNotFound:      codes.NotFound,
	resberror.CodeResourceMissing:       codes.NotFound,
	resberror.CodeTypeMismatch:          codes.FailedPrecondition,
	resberror.CodeAliasLoop:             codes.FailedPrecondition,
	resberror.CodeIndexOutOfRange:       codes.OutOfRange,
	resberror.CodeInvalidInput:          codes.InvalidArgument,
	resberror.CodeDataCorruption:        codes.DataLoss,
	resberror.CodeInvalidFormat:         codes.DataLoss,
	resberror.CodeServiceUnavailable:    codes.Unavailable,
	resberror.CodeServiceInitialization: codes.Unavailable,
}

var statusToCode = map[codes.Code]resberror.Code{
	codes.NotFound:           resberror.CodeResourceNotFound,
	codes.FailedPrecondition: resberror.CodeTypeMismatch,
	codes.OutOfRange:         resberror.CodeIndexOutOfRange,
	codes.InvalidArgument:    resberror.CodeInvalidInput,
	codes.DataLoss:           resberror.CodeDataCorruption,
	codes.Unavailable:        resberror.CodeServiceUnavailable,
}

// ToStatus maps an error to a gRPC status error. Errors that already carry a
// status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *resberror.Error
	if errors.As(err, &e) {
		if c, ok := codeToStatus[e.Code()]; ok {
			return status.Error(c, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// FromStatus maps a gRPC status error back to a domain error
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	code, known := statusToCode[st.Code()]
	if !known {
		code = resberror.CodeInternal
	}
	return resberror.New(st.Message()).
		WithCode(code).
		WithDetail("grpc_code", st.Code().String())
}
