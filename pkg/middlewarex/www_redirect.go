package middlewarex

import (
	"net/http"
	"strings"
)

// WwwRedirect sends www.<host> requests to the apex domain with 301.
func WwwRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if apex, ok := strings.CutPrefix(host, "www."); ok {
			target := "https://" + apex + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)

			return
		}

		next.ServeHTTP(w, r)
	})
}
