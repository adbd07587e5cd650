package web

import (
	"net/http"

	"github.com/Olprog59/go-clientbook/internal/service/auth"
)

const (
	csrfCookieName = "csrf_token"
	csrfFieldName  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

// generateCSRFToken creates a secure, random token for CSRF (Cross-Site Request Forgery) protection.
// It is used in the "Double Submit Cookie" pattern: the token is sent to the client in a
// cookie and must come back in the csrf_token form field or the X-CSRF-Token header on
// state-changing requests.
func generateCSRFToken() (string, error) {
	return auth.GenerateSecureToken()
}

// setCSRFCookie issues the token cookie / Émet le cookie du token
func setCSRFCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// isSafeMethod reports methods that never change state.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
