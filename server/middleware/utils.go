package middlewares

import (
	"net/http"

	"github.com/ytdlp-gui/ytdlp-gui/server/config"
)

func ApplyAuthenticationByConfig(next http.Handler) http.Handler {
	if config.Instance().Authentication.RequireAuth {
		return Authenticated(next)
	}
	return next
}
