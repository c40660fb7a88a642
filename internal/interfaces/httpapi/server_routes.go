package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/feed", OptionalAuth(verifier, http.HandlerFunc(handler.GetFeed)))
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))

	mux.Handle("POST /v1/draft/claims", RequireAuth(verifier, http.HandlerFunc(handler.ClaimPlayer)))
	mux.Handle("POST /v1/draft/swaps", RequireAuth(verifier, http.HandlerFunc(handler.SwapPlayers)))
	mux.Handle("GET /v1/roster/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyRoster)))

	mux.Handle("POST /v1/feed/posts", RequireAuth(verifier, http.HandlerFunc(handler.CreatePost)))
	mux.Handle("PATCH /v1/feed/posts/{postID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePost)))

	mux.Handle("GET /v1/profile/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PUT /v1/profile/me/username", RequireAuth(verifier, http.HandlerFunc(handler.ClaimUsername)))
}
