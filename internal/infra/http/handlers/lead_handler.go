package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
	"github.com/MarceloRDPJ/funila-app/internal/infra/http/middleware"
	"github.com/MarceloRDPJ/funila-app/internal/infra/security"
	"github.com/MarceloRDPJ/funila-app/internal/scoring"
	"github.com/MarceloRDPJ/funila-app/internal/usecase"
)

type LeadHandler struct {
	SavePartialUC *usecase.SavePartialLeadUseCase
	SubmitUC      *usecase.SubmitLeadUseCase
	StatusUC      *usecase.UpdateLeadStatusUseCase
	rateLimiter   *RateLimiter
}

func NewLeadHandler(
	savePartialUC *usecase.SavePartialLeadUseCase,
	submitUC *usecase.SubmitLeadUseCase,
	statusUC *usecase.UpdateLeadStatusUseCase,
) *LeadHandler {
	return &LeadHandler{
		SavePartialUC: savePartialUC,
		SubmitUC:      submitUC,
		StatusUC:      statusUC,
		rateLimiter:   NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// HandleSavePartial captura o lead no meio do funil. Endpoint público,
// então rate limit por IP na frente de tudo.
func (h *LeadHandler) HandleSavePartial(w http.ResponseWriter, r *http.Request) {
	// A chave do rate limit é o hash do IP: não guardamos IP cru nem aqui.
	clientKey := security.HashIP(getClientIP(r))
	if !h.rateLimiter.Allow(clientKey) {
		respondJSON(w, http.StatusTooManyRequests, errorResponse{
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.SavePartialInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}

	output, err := h.SavePartialUC.Execute(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}

	middleware.RecordLeadCaptured("partial", entity.StatusStarted)
	respondJSON(w, http.StatusOK, output)
}

// HandleSubmit processa o envio final do formulário.
func (h *LeadHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}

	output, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}

	status := scoring.Classify(output.Score)
	middleware.RecordLeadCaptured("final", status)
	if status == entity.StatusHot {
		middleware.RecordHotLeadAlert()
	}

	respondJSON(w, http.StatusOK, output)
}

// HandleUpdateStatus move o lead no kanban (cold/warm/hot/converted).
func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}
	input.LeadID = chi.URLParam(r, "leadId")

	lead, err := h.StatusUC.Execute(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// respondError traduz a taxonomia do usecase para HTTP: DomainError é
// culpa do cliente, not-found é 404, o resto é a falha de persistência
// que o contrato permite vazar como 5xx.
func (h *LeadHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrTenantNotFound), errors.Is(err, entity.ErrLeadNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case usecase.IsDomainError(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
