package extract

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"tally/internal/gemini"
)

type extractRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the optional HTTP façade: POST /extract {text} returns the
// structured extraction. 400 for caller mistakes (missing text, no amount),
// 504 for classifier timeouts, 500 for other failures.
func Handler(extractor *Extractor, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "use POST"})
			return
		}

		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
			return
		}

		result, err := extractor.Extract(r.Context(), req.Text)
		switch {
		case errors.Is(err, ErrNoAmount):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, gemini.ErrTimeout):
			writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
		case err != nil:
			logger.Error("extraction failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "extraction failed"})
		default:
			writeJSON(w, http.StatusOK, result)
		}
	})

	return cors.Default().Handler(mux)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
