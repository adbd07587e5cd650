package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Olprog59/go-clientbook/internal/app"
	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/service"
)

// maxFormBytes bounds a submitted client form.
const maxFormBytes = 1 << 20

// Handler is a container for application dependencies that are required by HTTP handlers.
// It gives handlers access to the client service, the flash store and the parsed pages.
type Handler struct {
	container *app.Container
	clients   *service.ClientService
	flash     *FlashStore
	views     *views
}

// NewHandler creates and returns a new Handler instance.
// The embedded templates are parsed once here; a parse error is a build defect and panics.
func NewHandler(container *app.Container) *Handler {
	v, err := parseViews()
	if err != nil {
		panic(err)
	}
	return &Handler{
		container: container,
		clients:   container.ClientSvc,
		flash:     NewFlashStore(container.Config.Session),
		views:     v,
	}
}

// ErrorBody is the JSON error payload / Corps JSON d'une erreur
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorResponse is a helper function for sending standardized JSON error responses.
// It sets the "Content-Type" header to "application/json", writes the specified HTTP status code,
// and sends a JSON body with an "error" key containing the provided message.
func ErrorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorBody{Error: message})
}

// jsonResponse is a helper function for sending standardized JSON responses.
// It sets the "Content-Type" header to "application/json" and encodes the provided
// data structure into a JSON response body.
func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "err", err)
	}
}

// limitRequestBody wraps a request body with MaxBytesReader to limit its size.
func limitRequestBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
}

// parseForm bounds and parses a submitted form, answering 400 on failure.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	limitRequestBody(w, r, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		loggerFrom(r.Context()).Warn("invalid form submission", "err", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID reads the {id} path segment; anything but an integer is a 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

// page renders a full HTML page with the pending flashes / Rend une page avec les notifications
func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, name, title, active string, data any, notices ...Flash) {
	pd := &pageData{
		Title:       title,
		Active:      active,
		Flashes:     append(h.flash.Pop(w, r), notices...),
		CSRFToken:   csrfToken(r.Context()),
		SearchTypes: searchOptions(domain.SearchAll),
		Data:        data,
	}
	if sr, ok := data.(searchView); ok {
		pd.SearchQuery = sr.Query
		pd.SearchTypes = searchOptions(sr.Type)
	}
	h.views.render(w, status, name, pd)
}

// redirectWithFlash stores a flash and redirects / Stocke une notification et redirige
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, category, message string) {
	h.flash.Set(w, category, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// serverError logs and answers 500 / Journalise et répond 500
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	loggerFrom(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
