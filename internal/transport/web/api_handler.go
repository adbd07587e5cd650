package web

import (
	"net/http"
)

// APIClients returns every client as JSON / Retourne tous les clients en JSON
//
//	@Summary		List all clients
//	@Description	Returns every row of the clients table. Each object carries one key per column; NULL columns are null.
//	@Tags			Clients
//	@Produce		json
//	@Success		200	{array}		object		"Every client"
//	@Failure		500	{object}	ErrorBody	"Storage failure"
//	@Router			/api/clients [get]
func (h *Handler) APIClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ExportAll(r.Context())
	if err != nil {
		loggerFrom(r.Context()).Error("failed to export clients", "err", err)
		ErrorResponse(w, "Failed to retrieve clients", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, clients)
}
