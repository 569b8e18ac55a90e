package server

import (
	"log/slog"
	"net/http"
)

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	if r.Header.Get("Accept") == "application/json" {
		if err := s.writeJSON(w, envelop{"errors": message}, status, nil); err != nil {
			slog.Error(err.Error())
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	http.Error(w, message, status)
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := "the server encountered a problem and could not process your request"
	s.errorResponse(w, r, http.StatusInternalServerError, message)
	slog.Error(err.Error(), "method", r.Method, "path", r.URL.Path)
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource cannot be found"
	s.errorResponse(w, r, http.StatusNotFound, message)
}
