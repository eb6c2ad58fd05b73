package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/recontrack/internal/domain/detailer"
)

type createDetailerBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type updateDetailerBody struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Active *bool   `json:"active"`
}

func (s *Server) handleListDetailers(w http.ResponseWriter, r *http.Request) {
	list, err := s.detailers.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateDetailer(w http.ResponseWriter, r *http.Request) {
	var body createDetailerBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	d, err := s.detailers.Create(r.Context(), detailer.CreateRequest{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDetailer(w http.ResponseWriter, r *http.Request) {
	d, err := s.detailers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDetailer(w http.ResponseWriter, r *http.Request) {
	var body updateDetailerBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	d, err := s.detailers.Update(r.Context(), detailer.UpdateRequest{
		ID:     chi.URLParam(r, "id"),
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Active: body.Active,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeactivateDetailer(w http.ResponseWriter, r *http.Request) {
	d, err := s.detailers.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
