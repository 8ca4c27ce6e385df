package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/infra/httpx/middlewares"
)

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	actor, _ := middlewares.ActorFromContext(r.Context())

	client, err := h.clients.Create(r.Context(), actor.UID, app.NewClient{
		Name:  req.Name,
		Email: req.Email,
		CPF:   req.CPF,
	})
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapClientToResponse(client))
}

func (h *Handler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "client not found")
		return
	}

	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapClientToResponse(client))
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	in := app.ListClientsInput{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
		Name:  r.URL.Query().Get("name"),
		Email: r.URL.Query().Get("email"),
		CPF:   r.URL.Query().Get("cpf"),
	}

	clients, page, limit, err := h.clients.List(r.Context(), in)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	out := ClientListResponse{Page: page, Limit: limit, Clients: make([]ClientResponse, len(clients))}
	for i, c := range clients {
		out.Clients[i] = mapClientToResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "client not found")
		return
	}

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	client, err := h.clients.Update(r.Context(), id, app.UpdateClientInput{
		Name:  req.Name,
		Email: req.Email,
		CPF:   req.CPF,
	})
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapClientToResponse(client))
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "client not found")
		return
	}

	if err := h.clients.Delete(r.Context(), id); err != nil {
		writeFault(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateUser registers a back-office operator record. Admin only.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	actor, _ := middlewares.ActorFromContext(r.Context())

	user, err := h.users.Create(r.Context(), actor.UID, app.NewUser{
		UID:   req.UID,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		ID:    user.ID,
		UID:   user.UID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}
