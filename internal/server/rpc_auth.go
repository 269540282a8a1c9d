package server

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/logger"
)

// requireToken gates an endpoint behind a bearer token when one is
// configured. With no secret set the endpoint is open, which is fine for the
// default loopback bind.
func requireToken(l logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := os.Getenv(common.RPCSecretEnv)
		if secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			l.Warning("web: rejected unauthorized request from %s", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
