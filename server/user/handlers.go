package user

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ytdlp-gui/ytdlp-gui/server/config"
	middlewares "github.com/ytdlp-gui/ytdlp-gui/server/middleware"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	auth := config.Instance().Authentication

	userOk := subtle.ConstantTimeCompare([]byte(req.Username), []byte(auth.Username)) == 1
	passOk := bcrypt.CompareHashAndPassword([]byte(auth.PasswordHash), []byte(req.Password)) == nil

	if !userOk || !passOk {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	token, expires, err := middlewares.IssueToken(req.Username, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(token); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode("ok"); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
