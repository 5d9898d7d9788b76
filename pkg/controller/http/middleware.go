package http

import (
	"net/http"
	"strings"

	"github.com/cropai/cropai/pkg/domain/model/auth"
	"github.com/cropai/cropai/pkg/utils/errutil"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// jwtMiddleware verifies an HS256 bearer token. The userId claim, or sub when
// it is absent, becomes the authenticated owner.
func jwtMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				errutil.HandleHTTP(r.Context(), w, goerr.New("authentication required"), http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse([]byte(raw), jwt.WithKey(jwa.HS256, secret), jwt.WithValidate(true))
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.New("token is not valid or has expired"), http.StatusUnauthorized)
				return
			}

			user := &auth.User{
				ID:   stringClaim(token, "userId"),
				Role: stringClaim(token, "role"),
			}
			if user.ID == "" {
				user.ID = token.Subject()
			}
			if user.ID == "" {
				errutil.HandleHTTP(r.Context(), w, goerr.New("token has no user"), http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func stringClaim(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
