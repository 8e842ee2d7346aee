package controllers

import (
	"net/http"

	"mesto-restful/models"
	"mesto-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserController serves profile reads and self-service profile updates.
type UserController struct {
	userService services.UserService
	authFilter  restful.FilterFunction
	logger      *zap.Logger
}

// Constructor, used to create a UserController instance
func NewUserController(userService services.UserService, authFilter restful.FilterFunction, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, authFilter: authFilter, logger: logger}
}

// UserResponse Defines the response structure of user information.
// The password hash has no field here and can never be serialized.
type UserResponse struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	About  string    `json:"about"`
	Avatar string    `json:"avatar"`
	Email  string    `json:"email"`
}

// --- Helper to map model to response ---
func mapModelToUserResponse(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		About:  user.About,
		Avatar: user.Avatar,
		Email:  user.Email,
	}
}

// RegisterRoutes sets up the user-related routes for a go-restful WebService.
func (ctl *UserController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/users").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	tags := []string{"users"}

	ws.Route(ws.GET("").Filter(ctl.authFilter).To(ctl.listUsersHandler).
		Doc("List all users").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]UserResponse{}).
		Returns(http.StatusOK, "Users listed", []UserResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))

	ws.Route(ws.GET("/me").Filter(ctl.authFilter).To(ctl.getCurrentUserHandler).
		Doc("Get the signed-in user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(UserResponse{}).
		Returns(http.StatusOK, "User found", UserResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}).
		Returns(http.StatusNotFound, "User not found", MessageResponse{}))

	ws.Route(ws.GET("/{user-id}").Filter(ctl.authFilter).To(ctl.getUserByIDHandler).
		Doc("Get user by ID").
		Param(ws.PathParameter("user-id", "Identifier of the user").DataType("string")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(UserResponse{}).
		Returns(http.StatusOK, "User found", UserResponse{}).
		Returns(http.StatusBadRequest, "Invalid user ID", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}).
		Returns(http.StatusNotFound, "User not found", MessageResponse{}))

	ws.Route(ws.PATCH("/me").Filter(ctl.authFilter).To(ctl.updateProfileHandler).
		Doc("Update name and about of the signed-in user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateProfileInput{}).
		Writes(UserResponse{}).
		Returns(http.StatusOK, "User updated", UserResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))

	ws.Route(ws.PATCH("/me/avatar").Filter(ctl.authFilter).To(ctl.updateAvatarHandler).
		Doc("Update avatar of the signed-in user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateAvatarInput{}).
		Writes(UserResponse{}).
		Returns(http.StatusOK, "Avatar updated", UserResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))
}

// --- go-restful Handler Functions ---

// listUsersHandler (Handles GET /users)
func (ctl *UserController) listUsersHandler(request *restful.Request, response *restful.Response) {
	users, err := ctl.userService.ListUsers(request.Request.Context())
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = mapModelToUserResponse(&users[i])
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, userResponses, restful.MIME_JSON)
}

// getCurrentUserHandler (Handles GET /users/me)
func (ctl *UserController) getCurrentUserHandler(request *restful.Request, response *restful.Response) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	user, err := ctl.userService.GetCurrentUser(request.Request.Context(), actor)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToUserResponse(user), restful.MIME_JSON)
}

// getUserByIDHandler (Handles GET /users/{user-id})
func (ctl *UserController) getUserByIDHandler(request *restful.Request, response *restful.Response) {
	user, err := ctl.userService.GetUserByID(request.Request.Context(), request.PathParameter("user-id"))
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToUserResponse(user), restful.MIME_JSON)
}

// updateProfileHandler (Handles PATCH /users/me)
func (ctl *UserController) updateProfileHandler(request *restful.Request, response *restful.Response) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	input := new(services.UpdateProfileInput)
	if err := readBody(request, input); err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	updatedUser, err := ctl.userService.UpdateProfile(request.Request.Context(), actor, input)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToUserResponse(updatedUser), restful.MIME_JSON)
}

// updateAvatarHandler (Handles PATCH /users/me/avatar)
func (ctl *UserController) updateAvatarHandler(request *restful.Request, response *restful.Response) {
	actor, err := actingUser(request)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	input := new(services.UpdateAvatarInput)
	if err := readBody(request, input); err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	updatedUser, err := ctl.userService.UpdateAvatar(request.Request.Context(), actor, input)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToUserResponse(updatedUser), restful.MIME_JSON)
}
