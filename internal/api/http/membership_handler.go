package http

import (
	"net/http"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/service"
)

type MembershipHandler struct {
	membershipSvc service.MembershipService
}

func NewMembershipHandler(membershipSvc service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipSvc: membershipSvc}
}

func (h *MembershipHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	communityID, err := pathID(r, "communityID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	members, err := h.membershipSvc.ListMembers(r.Context(), communityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MembershipHandler) GetMine(w http.ResponseWriter, r *http.Request) {
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
	membership, err := h.membershipSvc.Get(r.Context(), userID, communityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, membership)
}

func (h *MembershipHandler) Leave(w http.ResponseWriter, r *http.Request) {
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
	if err := h.membershipSvc.Leave(r.Context(), userID, communityID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *MembershipHandler) Remove(w http.ResponseWriter, r *http.Request) {
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
	membershipID, err := pathID(r, "membershipID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.membershipSvc.Remove(r.Context(), communityID, membershipID, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *MembershipHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
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
	membershipID, err := pathID(r, "membershipID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	membership, err := h.membershipSvc.UpdateRole(r.Context(), communityID, membershipID, domain.MembershipRole(req.Role), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, membership)
}
