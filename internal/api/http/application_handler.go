package http

import (
	"net/http"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/service"
)

type ApplicationHandler struct {
	appSvc service.ApplicationService
}

func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	communityID, err := pathID(r, "communityID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var params service.SubmitApplicationParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.appSvc.Submit(r.Context(), userID, communityID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	communityID, err := pathID(r, "communityID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.ApplicationStatus(r.URL.Query().Get("status"))
	apps, err := h.appSvc.ListByCommunity(r.Context(), communityID, userID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	membership, profile, err := h.appSvc.Approve(r.Context(), applicationID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"membership": membership,
		"profile":    profile,
	})
}

func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.appSvc.Reject(r.Context(), applicationID, userID, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.appSvc.Revoke(r.Context(), applicationID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
