package server

import (
	"encoding/json"
	"net/http"
)

type envelop map[string]any

func (*Server) writeJSON(w http.ResponseWriter, data any, status int, headers http.Header) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	for k, v := range headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonBytes)
	return nil
}
