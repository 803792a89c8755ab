package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/handler/http/response"
)

// AuthRequired verifies the access token parsed by jwtauth.Verifier and
// rejects refresh tokens presented as access tokens.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorFromRequest resolves the verified caller identity from the token
// claims. Handlers pass the result explicitly into every service call.
func ActorFromRequest(r *http.Request) (auth.EmployeeContext, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return auth.EmployeeContext{}, auth.ErrInvalidToken
	}
	return auth.EmployeeContextFromClaims(claims)
}
