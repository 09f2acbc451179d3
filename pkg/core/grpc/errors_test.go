package grpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	resberror "github.com/msto63/resb/foundation/core/error"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", resberror.New("x").WithCode(resberror.CodeResourceNotFound), codes.NotFound},
		{"type mismatch", resberror.New("x").WithCode(resberror.CodeTypeMismatch), codes.FailedPrecondition},
		{"index", resberror.New("x").WithCode(resberror.CodeIndexOutOfRange), codes.OutOfRange},
		{"wrapped", resberror.Wrap(resberror.New("x").WithCode(resberror.CodeDataCorruption), "load"), codes.DataLoss},
		{"plain error", errors.New("boom"), codes.Internal},
		{"already status", status.Error(codes.Aborted, "stop"), codes.Aborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(ToStatus(tt.err)); got != tt.want {
				t.Errorf("status.Code(ToStatus()) = %v, want %v", got, tt.want)
			}
		})
	}

	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code codes.Code
		want resberror.Code
	}{
		{codes.NotFound, resberror.CodeResourceNotFound},
		{codes.FailedPrecondition, resberror.CodeTypeMismatch},
		{codes.OutOfRange, resberror.CodeIndexOutOfRange},
		{codes.Unavailable, resberror.CodeServiceUnavailable},
		{codes.Aborted, resberror.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := FromStatus(status.Error(tt.code, "msg"))
			if got := resberror.GetCode(err); got != tt.want {
				t.Errorf("GetCode(FromStatus()) = %v, want %v", got, tt.want)
			}
			if err.Error() != "msg" {
				t.Errorf("Error() = %q, want msg", err.Error())
			}
		})
	}

	plain := errors.New("plain")
	if FromStatus(plain) != plain {
		t.Error("FromStatus() should pass non-status errors through")
	}
}

func TestGetRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}

	md := metadata.Pairs(RequestIDHeader, "req-2")
	ctx = metadata.NewIncomingContext(context.Background(), md)
	if got := GetRequestID(ctx); got != "req-2" {
		t.Errorf("GetRequestID(metadata) = %q, want req-2", got)
	}

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}
}
