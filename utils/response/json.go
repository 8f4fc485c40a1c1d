package response

import (
	"encoding/json"
	"net/http"
)

// PolicyErrorBody is returned when a password is rejected by the policy.
type PolicyErrorBody struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations"`
	Messages   []string `json:"messages"`
}

func JSONResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func JSONError(w http.ResponseWriter, message string, status int) {
	JSONResponse(w, map[string]string{"error": message}, status)
}

// JSONPolicyError writes a 400 listing every broken password rule.
func JSONPolicyError(w http.ResponseWriter, message string, violations, messages []string) {
	JSONResponse(w, PolicyErrorBody{
		Error:      message,
		Violations: violations,
		Messages:   messages,
	}, http.StatusBadRequest)
}
