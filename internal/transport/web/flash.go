package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/service/auth"
)

const (
	flashCookieName = "flash"
	defaultFlashTTL = 5 * time.Minute
)

// Flash categories match Bootstrap alert variants / Catégories de notifications
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page / Notification affichée une seule fois
type Flash struct {
	Category string
	Message  string
}

// FlashStore keeps flashes in a signed cookie / Stocke les notifications dans un cookie signé
type FlashStore struct {
	secret string
	ttl    time.Duration
	secure bool
}

// NewFlashStore creates flash store from session config / Crée le store depuis la config de session
func NewFlashStore(conf config.SessionConfig) *FlashStore {
	ttl := conf.FlashTTL
	if ttl <= 0 {
		ttl = defaultFlashTTL
	}
	return &FlashStore{secret: conf.Secret, ttl: ttl, secure: conf.CookieSecure}
}

// Set stores a flash for the next request / Enregistre une notification pour la requête suivante
func (s *FlashStore) Set(w http.ResponseWriter, category, message string) {
	token, err := auth.SignFlash(category, message, s.secret, s.ttl)
	if err != nil {
		slog.Error("failed to sign flash", "err", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending flash and clears the cookie / Retourne la notification et efface le cookie
func (s *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	claims, err := auth.ParseFlash(cookie.Value, s.secret)
	if err != nil {
		slog.Debug("discarding invalid flash cookie", "err", err)
		return nil
	}

	return []Flash{{Category: claims.Category, Message: claims.Message}}
}
