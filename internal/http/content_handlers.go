package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"regen-insight/server/internal/model"
	"regen-insight/server/internal/service"
)

type submitTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleSubmitTicket(w http.ResponseWriter, r *http.Request) {
	var req submitTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Subject == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Subject and message are required")
		return
	}
	claims := claimsFromContext(r.Context())
	ticket, err := s.svc.SubmitTicket(r.Context(), claims.PrincipalID, req.Subject, req.Message, req.Type)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"ticket": ticket})
}

func (s *Server) handleUserListTickets(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tickets, err := s.svc.ListUserTickets(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"tickets": tickets})
}

type createUploadRequest struct {
	CountyID  int    `json:"countyId"`
	Location  string `json:"location"`
	Comment   string `json:"comment"`
	ObjectKey string `json:"objectKey"`
}

func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	var req createUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Location == "" {
		writeError(w, http.StatusBadRequest, "Location is required")
		return
	}
	claims := claimsFromContext(r.Context())
	upload, err := s.svc.CreateUpload(r.Context(), service.CreateUploadInput{
		UserID:    claims.PrincipalID,
		CountyID:  req.CountyID,
		Location:  req.Location,
		Comment:   req.Comment,
		ObjectKey: req.ObjectKey,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"upload": upload})
}

// handleListUploads serves a county gallery. With ?sort=likes the list is
// ordered by like count and honours an optional limit.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	countyID, err := strconv.Atoi(chi.URLParam(r, "countyId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid county")
		return
	}

	var uploads []model.Upload
	if r.URL.Query().Get("sort") == "likes" {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		uploads, err = s.svc.MostLikedUploads(r.Context(), countyID, limit)
	} else {
		uploads, err = s.svc.ListUploads(r.Context(), countyID)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if uploads == nil {
		uploads = []model.Upload{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"uploads": uploads})
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	res, err := s.svc.ToggleLike(r.Context(), chi.URLParam(r, "uploadId"), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"liked": res.Liked, "likes": res.Likes})
}

func (s *Server) handleSubAdminByCounty(w http.ResponseWriter, r *http.Request) {
	countyID, err := strconv.Atoi(chi.URLParam(r, "countyId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid county")
		return
	}
	profile, err := s.svc.SubAdminByCounty(r.Context(), countyID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"subAdmin": profile})
}
