package http

import (
	"net/http"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Region   int    `json:"region"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	login, err := s.svc.SignupAndLogin(r.Context(), req.Name, req.Email, req.Password, req.Region)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"user":         login.User,
		"accessToken":  login.AccessToken,
		"sessionToken": login.SessionToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	login, err := s.svc.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"user":         login.User,
		"accessToken":  login.AccessToken,
		"sessionToken": login.SessionToken,
	})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	login, err := s.svc.LoginAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"admin":        login.Admin,
		"accessToken":  login.AccessToken,
		"sessionToken": login.SessionToken,
	})
}

type logoutRequest struct {
	SessionToken string `json:"sessionToken"`
}

// handleLogout destroys the session behind the opaque token. Idempotent: an
// unknown or missing token still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	_ = decodeJSON(r, &req)
	if req.SessionToken != "" {
		if err := s.svc.Logout(r.Context(), req.SessionToken); err != nil {
			s.writeServiceError(w, err)
			return
		}
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	profile, err := s.svc.CurrentUser(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": profile})
}

func (s *Server) handleAdminMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	profile, err := s.svc.CurrentAdmin(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"admin": profile})
}

type switchRegionRequest struct {
	Region int `json:"region"`
}

func (s *Server) handleSwitchRegion(w http.ResponseWriter, r *http.Request) {
	var req switchRegionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	claims := claimsFromContext(r.Context())
	profile, err := s.svc.SwitchRegion(r.Context(), claims.PrincipalID, req.Region)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": profile})
}
