package grpcserver

import (
	"context"

	"mesto-restful/apperr"
	"mesto-restful/models"
	"mesto-restful/services"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	UserServiceName = "mesto.user.v1.UserService"
	GetUserMethod   = "/" + UserServiceName + "/GetUser"
)

// UserServiceServer exposes public profiles to sibling services.
type UserServiceServer interface {
	GetUser(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var UserServiceDesc = grpc.ServiceDesc{
	ServiceName: UserServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUser", Handler: getUserHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mesto/user/v1/user.proto",
}

func getUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).GetUser(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// userServiceServer reuses the HTTP service logic, so ids, errors and
// the public field set are identical on both surfaces.
type userServiceServer struct {
	userService services.UserService
}

func NewUserServiceServer(us services.UserService) UserServiceServer {
	return &userServiceServer{userService: us}
}

// modelToProfile keeps the password hash out of the wire message.
func modelToProfile(u *models.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"_id":    u.ID.String(),
		"name":   u.Name,
		"about":  u.About,
		"avatar": u.Avatar,
		"email":  u.Email,
	})
}

func (s *userServiceServer) GetUser(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	user, err := s.userService.GetUserByID(ctx, req.GetValue())
	if err != nil {
		return nil, apperr.GRPCStatus(err)
	}
	profile, err := modelToProfile(user)
	if err != nil {
		return nil, apperr.GRPCStatus(err)
	}
	return profile, nil
}
