package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestServer() *HealthServer {
	return NewHealthServer("", nil, logging.Nop())
}

func TestUnaryInterceptor_PassesThrough(t *testing.T) {
	s := newTestServer()

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	handlerCalled := false
	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.unaryInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestUnaryInterceptor_MapsPlainErrors(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	h := func(ctx context.Context, req any) (any, error) {
		return nil, common.NewFault(common.ErrorNotFound, "x", nil)
	}

	_, err := s.unaryInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", status.Code(err))
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorInvalidID, codes.InvalidArgument},
		{common.NewFault(common.ErrorNoMatch, "", nil), codes.NotFound},
		{fmt.Errorf("wrap: %w", common.ErrorDuplicateName), codes.AlreadyExists},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{common.NewFault(common.ErrorStorage, "", errors.New("down")), codes.Unavailable},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
	}

	for _, tc := range cases {
		if got := status.Code(toStatus(tc.err)); got != tc.want {
			t.Fatalf("toStatus(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}

	if toStatus(nil) != nil {
		t.Fatal("toStatus(nil) must be nil")
	}
}
