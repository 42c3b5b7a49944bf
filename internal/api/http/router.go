package http

import (
	"net/http"

	"commonground-backend/internal/security"
	"commonground-backend/internal/service"
	"commonground-backend/internal/storage"

	"github.com/gorilla/mux"
)

type Services struct {
	Auth       service.AuthService
	Community  service.CommunityService
	App        service.ApplicationService
	Membership service.MembershipService
	Profile    service.ProfileService
}

// NewRouter wires all handlers. Everything except auth and public
// community reads sits behind the bearer-token middleware.
func NewRouter(svcs Services, avatars storage.Storage, tokens security.TokenManager) *mux.Router {
	authHandler := NewAuthHandler(svcs.Auth)
	communityHandler := NewCommunityHandler(svcs.Community)
	appHandler := NewApplicationHandler(svcs.App)
	membershipHandler := NewMembershipHandler(svcs.Membership)
	profileHandler := NewProfileHandler(svcs.Profile, avatars)

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	api.HandleFunc("/communities", communityHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/communities/{communityID:[0-9]+}", communityHandler.Get).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/communities", communityHandler.Create).Methods(http.MethodPost)

	authed.HandleFunc("/communities/{communityID:[0-9]+}/applications", appHandler.Submit).Methods(http.MethodPost)
	authed.HandleFunc("/communities/{communityID:[0-9]+}/applications", appHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/applications/{applicationID:[0-9]+}/approve", appHandler.Approve).Methods(http.MethodPost)
	authed.HandleFunc("/applications/{applicationID:[0-9]+}/reject", appHandler.Reject).Methods(http.MethodPost)
	authed.HandleFunc("/applications/{applicationID:[0-9]+}/revoke", appHandler.Revoke).Methods(http.MethodPost)

	authed.HandleFunc("/communities/{communityID:[0-9]+}/members", membershipHandler.ListMembers).Methods(http.MethodGet)
	authed.HandleFunc("/communities/{communityID:[0-9]+}/members/me", membershipHandler.GetMine).Methods(http.MethodGet)
	authed.HandleFunc("/communities/{communityID:[0-9]+}/leave", membershipHandler.Leave).Methods(http.MethodPost)
	authed.HandleFunc("/communities/{communityID:[0-9]+}/members/{membershipID:[0-9]+}", membershipHandler.Remove).Methods(http.MethodDelete)
	authed.HandleFunc("/communities/{communityID:[0-9]+}/members/{membershipID:[0-9]+}/role", membershipHandler.UpdateRole).Methods(http.MethodPut)

	authed.HandleFunc("/profiles/me", profileHandler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/profiles/{profileID:[0-9]+}/users", profileHandler.ListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/profiles/{profileID:[0-9]+}/share", profileHandler.Share).Methods(http.MethodPost)
	authed.HandleFunc("/profiles/{profileID:[0-9]+}/share/{userID:[0-9]+}", profileHandler.RemoveSharing).Methods(http.MethodDelete)
	authed.HandleFunc("/profiles/{profileID:[0-9]+}/primary", profileHandler.SetPrimary).Methods(http.MethodPut)
	authed.HandleFunc("/profiles/{profileID:[0-9]+}/avatar", profileHandler.UploadAvatar).Methods(http.MethodPut)
	authed.HandleFunc("/profiles/{profileID:[0-9]+}/avatar", profileHandler.GetAvatar).Methods(http.MethodGet)

	return r
}
