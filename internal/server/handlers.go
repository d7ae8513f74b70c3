package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/go-playground/validator/v10"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Handlers holds the HTTP handler methods.
type Handlers struct {
	engine Engine
}

func NewHandlers(engine Engine) *Handlers {
	return &Handlers{engine: engine}
}

// HandleWelcome answers GET / with a plain-text greeting.
func (h *Handlers) HandleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Welcome to pereval: one prompt, several models, ranked answers.")
}

// HandleBanner answers GET /llm.
func (h *Handlers) HandleBanner(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Prompt submission route")
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleGenerate runs the prompt through the engine and returns the full
// evaluation result.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	log := clog.FromContext(r.Context())

	var req PromptRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := h.engine.GenerateResponses(r.Context(), req.Prompt)
	if err != nil {
		log.Errorf("evaluation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// validationMessage turns validator errors into "prompt is required" style
// messages.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
