package handlers

import "net/http"

// Health reports liveness and which backing store is in use.
func Health(storage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "advisormetric",
			"storage": storage,
		})
	}
}
