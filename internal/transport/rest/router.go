package rest

import "net/http"

// Handlers groups every handler mounted on the API router.
type Handlers struct {
	Health  *HealthHandler
	Lexicon *LexiconHandler
	Cards   *CardHandler
	Credits *CreditsHandler
}

// NewRouter builds the route table. Authentication and the rest of the
// middleware chain are applied by the caller around the returned mux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health.Live)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/words/generate", h.Lexicon.Generate)

	mux.HandleFunc("POST /api/cards", h.Cards.Create)
	mux.HandleFunc("GET /api/cards", h.Cards.List)
	mux.HandleFunc("GET /api/cards/{id}", h.Cards.Get)
	mux.HandleFunc("PATCH /api/cards/{id}", h.Cards.Update)
	mux.HandleFunc("DELETE /api/cards/{id}", h.Cards.Delete)
	mux.HandleFunc("POST /api/cards/{id}/unlock", h.Cards.Unlock)
	mux.HandleFunc("POST /api/cards/{id}/extras", h.Cards.Extras)

	mux.HandleFunc("GET /api/credits", h.Credits.Get)

	return mux
}
