package http

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/logger"
	"commonground-backend/internal/service"
	"commonground-backend/internal/storage"

	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
	avatars    storage.Storage
}

func NewProfileHandler(profileSvc service.ProfileService, avatars storage.Storage) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, avatars: avatars}
}

func (h *ProfileHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var communityID int32
	if raw := r.URL.Query().Get("community_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, r, domain.InvalidError("invalid community_id %q", raw))
			return
		}
		communityID = int32(id)
	}
	profiles, err := h.profileSvc.GetUserProfiles(r.Context(), userID, communityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ownerships, err := h.profileSvc.GetProfileUsers(r.Context(), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ownerships)
}

func (h *ProfileHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		CommunityID int32  `json:"community_id"`
		Username    string `json:"username"`
		Role        string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	grant, err := h.profileSvc.Share(r.Context(), userID, profileID, req.CommunityID, req.Username, domain.OwnershipRole(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

func (h *ProfileHandler) RemoveSharing(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	targetUserID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.profileSvc.RemoveSharing(r.Context(), userID, profileID, targetUserID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	ext, ok := avatarExtensions[contentType]
	if !ok {
		writeError(w, r, domain.InvalidError("unsupported avatar content type %q", contentType))
		return
	}

	key := uuid.NewString() + ext
	body := http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := h.avatars.Save(key, body); err != nil {
		writeError(w, r, err)
		return
	}

	oldKey, err := h.profileSvc.SetAvatar(r.Context(), userID, profileID, key)
	if err != nil {
		// The profile row was not touched, so the freshly stored blob is
		// an orphan.
		if delErr := h.avatars.Delete(key); delErr != nil {
			logger.Warn("Failed to clean up orphaned avatar", "key", key, "error", delErr)
		}
		writeError(w, r, err)
		return
	}
	if oldKey != "" {
		if err := h.avatars.Delete(oldKey); err != nil {
			logger.Warn("Failed to delete replaced avatar", "key", oldKey, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar_key": key})
}

func (h *ProfileHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.profileSvc.Get(r.Context(), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profile.AvatarKey == "" {
		writeError(w, r, domain.NotFoundError("profile %d has no avatar", profileID))
		return
	}

	rc, err := h.avatars.Open(profile.AvatarKey)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, r, domain.NotFoundError("profile %d has no avatar", profileID))
			return
		}
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(profile.AvatarKey)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("Failed to stream avatar", "profile_id", profileID, "error", err)
	}
}

func (h *ProfileHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	profileID, err := pathID(r, "profileID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.profileSvc.SetPrimaryProfile(r.Context(), userID, profileID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
