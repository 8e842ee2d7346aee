// Package filters holds the container-wide go-restful filters.
package filters

import (
	"fmt"
	"net/http"
	"time"

	"mesto-restful/apperr"
	"mesto-restful/metrics"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request once it has been handled.
func RequestLogger(logger *zap.Logger, ips *ClientIPResolver) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		// handle requests
		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("client_ip", ips.ClientIP(req.Request)),
			zap.String("method", req.Request.Method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
			zap.String("path", req.Request.URL.Path),
		)
	}
}

// Metrics records request counts and latency per route template.
func Metrics(m *metrics.Metrics) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()
		chain.ProcessFilter(req, resp)

		route := req.SelectedRoutePath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(req.Request.Method, route, resp.StatusCode(), time.Since(startTime))
	}
}

// SecurityHeaders sets the conservative response headers browsers honour.
func SecurityHeaders() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		h := resp.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'self'")
		chain.ProcessFilter(req, resp)
	}
}

// CORS allows credentialed requests from the configured origins.
func CORS(container *restful.Container, allowedOrigins []string) restful.FilterFunction {
	cors := restful.CrossOriginResourceSharing{
		AllowedDomains: allowedOrigins,
		AllowedHeaders: []string{"Content-Type", "Accept", "Authorization"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		CookiesAllowed: true,
		MaxAge:         600,
		Container:      container,
	}
	return cors.Filter
}

// Recover answers a panicking handler with the generic 500 and logs the panic.
func Recover(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered from panic",
					zap.Any("panic", r),
					zap.String("method", req.Request.Method),
					zap.String("path", req.Request.URL.Path),
					zap.Stack("stack"),
				)
				apperr.WriteResponse(resp, fmt.Errorf("panic: %v", r), nil)
			}
		}()
		chain.ProcessFilter(req, resp)
	}
}

// ServiceErrorHandler routes go-restful's own routing failures through the error mapper.
// An unknown path and a known path with the wrong method are both 404.
func ServiceErrorHandler(logger *zap.Logger) restful.ServiceErrorHandleFunction {
	return func(serr restful.ServiceError, req *restful.Request, resp *restful.Response) {
		var err error
		switch serr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			err = apperr.NotFound("Requested resource not found")
		case http.StatusUnsupportedMediaType, http.StatusNotAcceptable:
			err = apperr.InvalidInput("Request must be JSON")
		default:
			err = fmt.Errorf("routing: %d %s", serr.Code, serr.Message)
		}
		for k, v := range serr.Header {
			resp.Header()[k] = v
		}
		apperr.WriteResponse(resp, err, logger)
	}
}
