package controllers

import (
	"net/http"

	"mesto-restful/auth"
	"mesto-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// CookieSettings describes the session cookie handed out on sign-in.
type CookieSettings struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// AuthController serves account creation and session handling.
type AuthController struct {
	userService services.UserService
	authFilter  restful.FilterFunction
	cookie      CookieSettings
	logger      *zap.Logger
}

func NewAuthController(userService services.UserService, authFilter restful.FilterFunction, cookie CookieSettings, logger *zap.Logger) *AuthController {
	return &AuthController{userService: userService, authFilter: authFilter, cookie: cookie, logger: logger}
}

// RegisterRoutes sets up the root-level account routes.
func (ctl *AuthController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	tags := []string{"auth"}

	ws.Route(ws.POST("/signup").To(ctl.signUpHandler).
		Doc("Register a new user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.SignUpInput{}).
		Returns(http.StatusCreated, "User created", UserResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusConflict, "Email already exists", MessageResponse{}))

	ws.Route(ws.POST("/signin").To(ctl.signInHandler).
		Doc("Sign in and receive the session cookie").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.SignInInput{}).
		Returns(http.StatusOK, "Authorization successful", MessageResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Incorrect email or password", MessageResponse{}))

	ws.Route(ws.POST("/signout").Filter(ctl.authFilter).To(ctl.signOutHandler).
		AllowedMethodsWithoutContentType([]string{http.MethodPost}).
		Doc("Clear the session cookie").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Signed out", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))
}

// signUpHandler (Handles POST /signup)
func (ctl *AuthController) signUpHandler(request *restful.Request, response *restful.Response) {
	input := new(services.SignUpInput)
	if err := readBody(request, input); err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	user, err := ctl.userService.Register(request.Request.Context(), input)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusCreated, mapModelToUserResponse(user), restful.MIME_JSON)
}

// signInHandler (Handles POST /signin)
func (ctl *AuthController) signInHandler(request *restful.Request, response *restful.Response) {
	input := new(services.SignInInput)
	if err := readBody(request, input); err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	token, _, err := ctl.userService.Authenticate(request.Request.Context(), input)
	if err != nil {
		writeError(response, err, ctl.logger)
		return
	}

	http.SetCookie(response.ResponseWriter, auth.SessionCookie(ctl.cookie.Name, token, ctl.cookie.MaxAge, ctl.cookie.Secure))
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "Authorization successful"}, restful.MIME_JSON)
}

// signOutHandler (Handles POST /signout)
func (ctl *AuthController) signOutHandler(request *restful.Request, response *restful.Response) {
	http.SetCookie(response.ResponseWriter, auth.ExpiredSessionCookie(ctl.cookie.Name, ctl.cookie.Secure))
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "Signed out"}, restful.MIME_JSON)
}
