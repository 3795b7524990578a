package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// StorefrontCORS allows any origin: the widget runs inside arbitrary
// storefront themes, so the public endpoints must answer cross-origin
// requests without credentials.
func StorefrontCORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}

// AdminCORS restricts the merchant dashboard endpoints to configured origins.
func AdminCORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Shop-Domain"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
