package internal

import (
	"fmt"
	"net/http"

	"asset-lending-api/internal/models"
	"asset-lending-api/internal/store"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Users sheet column layout (columns A through D, header in row 1).
const (
	userColUsername = iota
	userColPasswordHash
	userColRole
	userColFullName
)

// login checks the built-in credential pairs first and falls back to the
// Users sheet. Sheet passwords are bcrypt hashes.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	var user models.User
	switch {
	case req.Username == s.Cfg.AdminUsername && req.Password == s.Cfg.AdminPassword:
		user = models.User{Username: s.Cfg.AdminUsername, Role: "Admin", FullName: s.Cfg.AdminFullName}
	case req.Username == s.Cfg.ViewerUsername && req.Password == s.Cfg.ViewerPassword:
		user = models.User{Username: s.Cfg.ViewerUsername, Role: "Viewer", FullName: s.Cfg.ViewerFullName}
	default:
		found, _, err := s.findUser(r, req.Username)
		if err != nil {
			s.storeFail(w, r, err)
			return
		}
		if found == nil || bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(req.Password)) != nil {
			s.fail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		user = *found
	}

	token, err := s.JWTManager.GenerateToken(user.Username, user.Role, user.FullName)
	if err != nil {
		s.Log.WithError(err).Error("generate token")
		s.fail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusOK, models.LoginResponse{Success: true, User: user, Token: token})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.GetRows(r.Context(), s.usersRange())
	if err != nil {
		s.storeFail(w, r, err)
		return
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		if store.Cell(row, userColUsername) == "" {
			continue
		}
		users = append(users, userFromRow(row))
	}
	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if !models.IsValidRole(req.Role) {
		s.fail(w, http.StatusBadRequest, "Role must be Admin or Viewer")
		return
	}

	existing, _, err := s.findUser(r, req.Username)
	if err != nil {
		s.storeFail(w, r, err)
		return
	}
	if existing != nil {
		s.fail(w, http.StatusConflict, "User with this username already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.Log.WithError(err).Error("hash password")
		s.fail(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	row := []string{req.Username, string(hash), req.Role, req.FullName}
	if err := s.Store.AppendRow(r.Context(), fmt.Sprintf("%s!A:D", s.Cfg.UsersSheet), row); err != nil {
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, envelope{Success: true, Message: "User created"})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req models.UpdateUserRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Role != "" && !models.IsValidRole(req.Role) {
		s.fail(w, http.StatusBadRequest, "Role must be Admin or Viewer")
		return
	}

	user, rowIndex, err := s.findUser(r, username)
	if err != nil {
		s.storeFail(w, r, err)
		return
	}
	if user == nil {
		s.fail(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.Log.WithError(err).Error("hash password")
			s.fail(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}

	sheetRow := rowIndex + 2 // row 1 is the header
	rng := fmt.Sprintf("%s!A%d:D%d", s.Cfg.UsersSheet, sheetRow, sheetRow)
	row := [][]string{{user.Username, user.PasswordHash, user.Role, user.FullName}}
	if err := s.Store.UpdateRange(r.Context(), rng, row); err != nil {
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, rowIndex, err := s.findUser(r, username)
	if err != nil {
		s.storeFail(w, r, err)
		return
	}
	if user == nil {
		s.fail(w, http.StatusNotFound, "User not found")
		return
	}

	sheetRow := rowIndex + 2
	rng := fmt.Sprintf("%s!A%d:D%d", s.Cfg.UsersSheet, sheetRow, sheetRow)
	if err := s.Store.ClearRange(r.Context(), rng); err != nil {
		s.storeFail(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{Success: true})
}

// findUser scans the Users sheet for the username. Returns nil with no error
// when absent; rowIndex is the zero-based data row of the match.
func (s *Server) findUser(r *http.Request, username string) (*models.User, int, error) {
	rows, err := s.Store.GetRows(r.Context(), s.usersRange())
	if err != nil {
		return nil, 0, err
	}

	for i, row := range rows {
		if store.Cell(row, userColUsername) == username {
			user := userFromRow(row)
			return &user, i, nil
		}
	}
	return nil, 0, nil
}

func (s *Server) usersRange() string {
	return fmt.Sprintf("%s!A2:D", s.Cfg.UsersSheet)
}

func userFromRow(row []string) models.User {
	return models.User{
		Username:     store.Cell(row, userColUsername),
		PasswordHash: store.Cell(row, userColPasswordHash),
		Role:         store.Cell(row, userColRole),
		FullName:     store.Cell(row, userColFullName),
	}
}
