package health

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Paths served by Routes.
const (
	LivenessPath  = "/health"
	ReadinessPath = "/ready"
)

// LivenessHandler returns an HTTP handler for liveness requests.
// It always answers 200 and never runs a check.
func (r *Routes) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeResponse(w, http.StatusOK, r.Liveness(req.Context()))
	}
}

// ReadinessHandler returns an HTTP handler for readiness requests.
// It answers 200 when every check passed and 503 otherwise; the body always
// carries the per-check detail.
func (r *Routes) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		resp := r.Readiness(req.Context())
		writeResponse(w, resp.StatusCode(), resp)
	}
}

// Router returns a chi router serving GET /health and GET /ready.
func (r *Routes) Router() chi.Router {
	router := chi.NewRouter()
	r.Mount(router)
	return router
}

// Mount registers the health routes on an existing chi router.
func (r *Routes) Mount(router chi.Router) {
	router.Get(LivenessPath, r.LivenessHandler())
	router.Get(ReadinessPath, r.ReadinessHandler())
}

// RegisterMux registers the health routes on an http.ServeMux.
func (r *Routes) RegisterMux(mux *http.ServeMux) {
	mux.HandleFunc("GET "+LivenessPath, r.LivenessHandler())
	mux.HandleFunc("GET "+ReadinessPath, r.ReadinessHandler())
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
