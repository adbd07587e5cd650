package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/dto"
	"github.com/Olprog59/go-clientbook/internal/service"
)

// User-visible notices / Notifications visibles
const (
	msgClientNotFound = "Client not found!"
	msgClientAdded    = "Client added successfully!"
	msgClientUpdated  = "Client updated successfully!"
	msgClientDeleted  = "Client deleted successfully!"
	msgNoData         = "No data provided!"
)

type dashboardView struct {
	*service.Dashboard
	Summary []string
}

type listView struct {
	*service.Page
	Summary []string
}

type clientView struct {
	Client  *domain.Client
	Columns []string
}

type formView struct {
	IsEdit  bool
	ID      int64
	Action  string
	Columns []string
	Values  map[string]string
}

type searchView struct {
	*service.SearchResult
	Summary []string
}

// Dashboard shows the total count and the newest clients / Affiche le total et les derniers clients
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.clients.Dashboard(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard", dashboardView{
		Dashboard: dashboard,
		Summary:   tableColumns(dashboard.Columns, h.clients.IDColumn()),
	})
}

// ListClients shows one page of clients / Affiche une page de clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	// A missing or malformed page number means the first page
	pageNum, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		pageNum = 1
	}

	page, err := h.clients.ListPage(r.Context(), pageNum)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "clients", "Clients", "clients", listView{
		Page:    page,
		Summary: tableColumns(page.Columns, h.clients.IDColumn()),
	})
}

// ViewClient shows every column of one client / Affiche toutes les colonnes d'un client
func (h *Handler) ViewClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	client, err := h.clients.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			h.redirectWithFlash(w, r, "/clients", FlashDanger, msgClientNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "client_view", fmt.Sprintf("Client #%d", id), "clients", clientView{
		Client:  client,
		Columns: client.Columns(),
	})
}

// AddClientForm shows an empty form / Affiche un formulaire vide
func (h *Handler) AddClientForm(w http.ResponseWriter, r *http.Request) {
	columns, err := h.clients.EditableColumns(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "client_form", "Add client", "add", addForm(columns, nil))
}

// AddClient inserts the non-empty submitted fields / Insère les champs soumis non vides
func (h *Handler) AddClient(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	ctx := r.Context()
	columns, err := h.clients.EditableColumns(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	form := dto.NewClientForm(r.PostForm)

	id, err := h.clients.CreateClient(ctx, form)
	switch {
	case errors.Is(err, service.ErrNoData):
		h.page(w, r, http.StatusOK, "client_form", "Add client", "add", addForm(columns, form),
			Flash{Category: FlashWarning, Message: msgNoData})
		return
	case err != nil:
		loggerFrom(ctx).Error("failed to add client", "err", err)
		h.page(w, r, http.StatusInternalServerError, "client_form", "Add client", "add", addForm(columns, form),
			Flash{Category: FlashDanger, Message: "Error adding client: " + err.Error()})
		return
	}

	loggerFrom(ctx).Info("client added", "id", id)
	h.redirectWithFlash(w, r, "/clients", FlashSuccess, msgClientAdded)
}

// EditClientForm shows the form filled with stored values / Affiche le formulaire rempli
func (h *Handler) EditClientForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	client, err := h.clients.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			h.redirectWithFlash(w, r, "/clients", FlashDanger, msgClientNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	columns := domain.EditableColumns(client.Columns(), h.clients.IDColumn())
	values := make(map[string]string, len(columns))
	for _, col := range columns {
		values[col] = client.Display(col)
	}

	h.page(w, r, http.StatusOK, "client_form", fmt.Sprintf("Edit client #%d", id), "clients",
		editForm(id, columns, values))
}

// EditClient overwrites every editable column / Met à jour toutes les colonnes modifiables
func (h *Handler) EditClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !parseForm(w, r) {
		return
	}

	ctx := r.Context()
	form := dto.NewClientForm(r.PostForm)

	err := h.clients.UpdateClient(ctx, id, form)
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		h.redirectWithFlash(w, r, "/clients", FlashDanger, msgClientNotFound)
		return
	case err != nil:
		loggerFrom(ctx).Error("failed to update client", "id", id, "err", err)
		columns, colErr := h.clients.EditableColumns(ctx)
		if colErr != nil {
			h.serverError(w, r, colErr)
			return
		}
		values := make(map[string]string, len(columns))
		for _, col := range columns {
			values[col] = form.Get(col)
		}
		h.page(w, r, http.StatusInternalServerError, "client_form", fmt.Sprintf("Edit client #%d", id), "clients",
			editForm(id, columns, values),
			Flash{Category: FlashDanger, Message: "Error updating client: " + err.Error()})
		return
	}

	h.redirectWithFlash(w, r, fmt.Sprintf("/client/%d", id), FlashSuccess, msgClientUpdated)
}

// DeleteClient removes a client and returns to the list / Supprime un client
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.clients.DeleteClient(r.Context(), id); err != nil {
		h.redirectWithFlash(w, r, "/clients", FlashDanger, "Error deleting client: "+err.Error())
		return
	}

	h.redirectWithFlash(w, r, "/clients", FlashSuccess, msgClientDeleted)
}

// Search runs a search from the query string or the navbar form / Lance une recherche
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	req := dto.SearchRequestFromValues(r.Form)
	if req.Query == "" {
		http.Redirect(w, r, "/clients", http.StatusSeeOther)
		return
	}

	result, err := h.clients.Search(r.Context(), req.Query, req.Type)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "search_results", "Search", "", searchView{
		SearchResult: result,
		Summary:      tableColumns(result.Columns, h.clients.IDColumn()),
	})
}

func addForm(columns []string, form *dto.ClientForm) formView {
	values := make(map[string]string, len(columns))
	if form != nil {
		for _, col := range columns {
			values[col] = form.Get(col)
		}
	}
	return formView{Action: "/client/add", Columns: columns, Values: values}
}

func editForm(id int64, columns []string, values map[string]string) formView {
	return formView{
		IsEdit:  true,
		ID:      id,
		Action:  fmt.Sprintf("/client/edit/%d", id),
		Columns: columns,
		Values:  values,
	}
}
