package auth

import (
	"net/http"

	"mesto-restful/apperr"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// AuthFilter creates a go-restful FilterFunction that admits only requests
// carrying a valid session cookie. Missing and invalid cookies get the same answer.
func AuthFilter(tokens *TokenService, cookieName string, log *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		cookie, err := req.Request.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			apperr.WriteResponse(resp, apperr.Unauthenticated(UnauthorizedMessage), log)
			return
		}

		userID, err := tokens.Verify(cookie.Value)
		if err != nil {
			log.Debug("Rejected session token", zap.String("path", req.Request.URL.Path), zap.Error(err))
			apperr.WriteResponse(resp, err, log)
			return
		}

		// Store user information for use by subsequent processing functions
		req.SetAttribute(string(IdentityKey), userID)
		req.Request = req.Request.WithContext(WithIdentity(req.Request.Context(), userID))

		chain.ProcessFilter(req, resp)
	}
}

// SessionCookie builds the HTTP-only cookie that carries token.
func SessionCookie(name, token string, maxAgeSeconds int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredSessionCookie clears the session cookie in the browser.
func ExpiredSessionCookie(name string, secure bool) *http.Cookie {
	return SessionCookie(name, "", -1, secure)
}
