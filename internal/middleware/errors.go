package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "wbreport/internal/errors"
)

// ProblemContentType is the media type of middleware error bodies.
const ProblemContentType = "application/problem+json"

// writeProblem answers on behalf of a handler that never ran. The body has
// the same type, error_code and trace_id members as handler errors.
func writeProblem(w http.ResponseWriter, r *http.Request, apiErr *apperrors.APIError, detail string) {
	p := apperrors.ProblemFor(apiErr, r.URL.Path).
		WithExtension("trace_id", GetRequestID(r.Context()))
	if detail != "" {
		p.Detail = detail
	}

	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
