package router

import (
	"net/http"

	"github.com/vidyastream/backend/internal/ads"
	"github.com/vidyastream/backend/internal/auth"
	"github.com/vidyastream/backend/internal/engagement"
	"github.com/vidyastream/backend/internal/wallet"
)

// New returns an http.Handler serving the API under /api/v1.
// Admin endpoints sit behind the admin-role session middleware.
func New(
	walletH *wallet.Handler,
	adsH *ads.Handler,
	engagementH *engagement.Handler,
	authH *auth.Handler,
	adminAuth func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"

	// Wallet / bonus
	mux.HandleFunc("POST "+base+"/auth/first-login-bonus", walletH.FirstLoginBonus)
	mux.HandleFunc("GET "+base+"/users/{id}/transactions", walletH.ListTransactions)

	// Ads
	mux.HandleFunc("GET "+base+"/ads/{placement}", adsH.Select)
	mux.HandleFunc("POST "+base+"/ads/{id}/click", adsH.Click)

	// Watch history & certificates
	mux.HandleFunc("POST "+base+"/watch-history", engagementH.UpsertWatchHistory)
	mux.HandleFunc("GET "+base+"/users/{id}/watch-history", engagementH.ListWatchHistory)
	mux.HandleFunc("GET "+base+"/users/{id}/certificates", engagementH.ListCertificates)
	mux.HandleFunc("GET "+base+"/certificates/verify", engagementH.VerifyCertificate)

	// Admin
	mux.HandleFunc("POST "+base+"/admin/login", authH.Login)
	mux.Handle("GET "+base+"/admin/ads", adminAuth(http.HandlerFunc(adsH.ListAll)))
	mux.Handle("POST "+base+"/admin/ads", adminAuth(http.HandlerFunc(adsH.Create)))

	return mux
}
