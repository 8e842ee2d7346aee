// Package router assembles the go-restful container served on the HTTP port.
package router

import (
	"mesto-restful/auth"
	"mesto-restful/controllers"
	"mesto-restful/filters"
	"mesto-restful/metrics"
	"mesto-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"go.uber.org/zap"
)

// Options carries everything the HTTP surface needs.
type Options struct {
	UserService    services.UserService
	CardService    services.CardService
	Tokens         *auth.TokenService
	CookieName     string
	CookieSecure   bool
	AllowedOrigins []string
	ClientIPs      *filters.ClientIPResolver // nil attributes requests to the peer address
	RateLimiter    *filters.RateLimiter      // nil disables rate limiting
	Metrics        *metrics.Metrics          // nil disables /metrics
	Logger         *zap.Logger
}

// New builds the container with filters, routes, OpenAPI docs and metrics.
func New(opts Options) *restful.Container {
	logger := opts.Logger.Named("http")

	container := restful.NewContainer()
	container.Router(restful.CurlyRouter{})
	container.ServiceErrorHandler(filters.ServiceErrorHandler(logger))

	// Order matters: recovery wraps everything, logging sees the final status.
	container.Filter(filters.Recover(logger))
	container.Filter(filters.RequestLogger(logger, opts.ClientIPs))
	if opts.Metrics != nil {
		container.Filter(filters.Metrics(opts.Metrics))
	}
	container.Filter(filters.SecurityHeaders())
	container.Filter(filters.CORS(container, opts.AllowedOrigins))
	if opts.RateLimiter != nil {
		container.Filter(opts.RateLimiter.Filter)
	}

	authFilter := auth.AuthFilter(opts.Tokens, opts.CookieName, logger)
	cookie := controllers.CookieSettings{
		Name:   opts.CookieName,
		MaxAge: int(opts.Tokens.TTL().Seconds()),
		Secure: opts.CookieSecure,
	}

	rootWS := new(restful.WebService)
	controllers.NewAuthController(opts.UserService, authFilter, cookie, logger).RegisterRoutes(rootWS)
	controllers.NewSystemController().RegisterRoutes(rootWS)
	container.Add(rootWS)

	userWS := new(restful.WebService)
	controllers.NewUserController(opts.UserService, authFilter, logger).RegisterRoutes(userWS)
	container.Add(userWS)

	cardWS := new(restful.WebService)
	controllers.NewCardController(opts.CardService, authFilter, logger).RegisterRoutes(cardWS)
	container.Add(cardWS)

	openAPIConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	if opts.Metrics != nil {
		container.Handle("/metrics", opts.Metrics.Handler())
	}
	return container
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Mesto API",
			Description: "Photo cards with likes, owned by registered users",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "auth", Description: "Accounts and sessions"}},
		{TagProps: spec.TagProps{Name: "users", Description: "User profiles"}},
		{TagProps: spec.TagProps{Name: "cards", Description: "Cards and likes"}},
		{TagProps: spec.TagProps{Name: "system", Description: "Operational endpoints"}},
	}
}
