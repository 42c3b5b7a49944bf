package http

import (
	"net/http"

	"commonground-backend/internal/service"
)

type CommunityHandler struct {
	communitySvc service.CommunityService
}

func NewCommunityHandler(communitySvc service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communitySvc: communitySvc}
}

func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var params service.CreateCommunityParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}
	community, err := h.communitySvc.Create(r.Context(), userID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, community)
}

func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	communityID, err := pathID(r, "communityID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	community, err := h.communitySvc.Get(r.Context(), communityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, community)
}

func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	communities, err := h.communitySvc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, communities)
}
