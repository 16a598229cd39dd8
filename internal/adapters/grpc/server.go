package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
)

const serviceName = "easysewa.booking.v1.BookingInternalService"

// BookingInternalService is the contract other services use to check tokens and seat inventory.
type BookingInternalService interface {
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetScheduleAvailability(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type BookingInternalServer struct {
	service *application.Service
}

func NewBookingInternalServer(service *application.Service) *BookingInternalServer {
	return &BookingInternalServer{service: service}
}

// NewServer builds a grpc.Server with the internal service and standard health checks registered.
func NewServer(service *application.Service, logger *slog.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	Register(srv, NewBookingInternalServer(service))
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)
	return srv, healthSrv
}

func Register(server grpc.ServiceRegistrar, svc BookingInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*BookingInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ValidateToken",
				Handler:    unaryHandler("ValidateToken", svc.ValidateToken),
			},
			{
				MethodName: "GetScheduleAvailability",
				Handler:    unaryHandler("GetScheduleAvailability", svc.GetScheduleAvailability),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "easysewa/booking/v1/booking_internal.proto",
	}, svc)
}

func (s *BookingInternalServer) ValidateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	claims, err := s.service.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return nil, toStatus(err)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":      true,
		"user_id":    claims.UserID.String(),
		"email":      claims.Email,
		"role":       string(claims.Role),
		"expires_at": claims.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

// GetScheduleAvailability reports remaining inventory and held seat labels for a schedule.
func (s *BookingInternalServer) GetScheduleAvailability(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	scheduleID := req.GetFields()["schedule_id"].GetStringValue()
	if scheduleID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing schedule_id")
	}

	schedule, err := s.service.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, toStatus(err)
	}
	booked, err := s.service.BookedSeats(ctx, scheduleID)
	if err != nil {
		return nil, toStatus(err)
	}

	seats := make([]any, 0, len(booked.BookedSeats))
	for _, seat := range booked.BookedSeats {
		seats = append(seats, seat)
	}
	resp, err := structpb.NewStruct(map[string]any{
		"schedule_id":     schedule.ID.String(),
		"bus_id":          schedule.BusID.String(),
		"date":            schedule.Date,
		"departure_time":  schedule.DepartureTime,
		"available_seats": schedule.AvailableSeats,
		"price":           schedule.Price.StringFixed(2),
		"booked_seats":    seats,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, "permission denied")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func unaryHandler(method string, call func(context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "grpc", "layer", "adapter")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []any{
			"operation", info.FullMethod,
			"grpc_code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "grpc call completed", append(fields, "outcome", "success")...)
		case codes.Internal, codes.Unknown:
			logger.ErrorContext(ctx, "grpc call completed", append(fields, "outcome", "failure", "error", err)...)
		default:
			logger.WarnContext(ctx, "grpc call completed", append(fields, "outcome", "failure", "error", err)...)
		}
		return resp, err
	}
}
