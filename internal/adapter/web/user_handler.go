package web

import (
	"errors"
	"net/http"

	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/domain"
)

// GET /signup
func (s *Server) signupForm(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	if rc.Authenticated() {
		http.Redirect(w, r, "/listings", http.StatusFound)
		return nil
	}
	s.render(w, rc, http.StatusOK, "signup.html", "Sign Up", nil)
	return nil
}

// POST /signup registers the account and logs the new user in directly.
func (s *Server) signup(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := s.users.Signup(r.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUser), errors.Is(err, domain.ErrInvalidInput):
			rc.Flash(session.FlashError, err.Error())
			http.Redirect(w, r, "/signup", http.StatusFound)
			return nil
		default:
			return err
		}
	}

	s.rotateSession(w, r, rc)
	rc.Session.UserID = user.ID.Hex()
	rc.User = user
	rc.Flash(session.FlashSuccess, "Welcome to WanderLust!")
	http.Redirect(w, r, "/listings", http.StatusFound)
	return nil
}

// GET /login
func (s *Server) loginForm(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	if rc.Authenticated() {
		http.Redirect(w, r, "/listings", http.StatusFound)
		return nil
	}
	s.render(w, rc, http.StatusOK, "login.html", "Log In", nil)
	return nil
}

// POST /login verifies credentials and returns to the page that triggered
// the login redirect, when one was captured.
func (s *Server) login(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := s.users.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			rc.Flash(session.FlashError, "Invalid username or password")
			http.Redirect(w, r, "/login", http.StatusFound)
			return nil
		}
		return err
	}

	returnTo := rc.Session.ReturnTo
	if returnTo == "" {
		returnTo = "/listings"
	}

	s.rotateSession(w, r, rc)
	rc.Session.UserID = user.ID.Hex()
	rc.Session.ReturnTo = ""
	rc.User = user
	rc.Flash(session.FlashSuccess, "Welcome back to WanderLust!")
	http.Redirect(w, r, returnTo, http.StatusFound)
	return nil
}

// GET /logout destroys the session; always succeeds.
func (s *Server) logout(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	if err := s.sessions.Destroy(r.Context(), rc.Session.Token); err != nil {
		s.logger.Error("Failed to destroy session on logout")
	}

	// A fresh anonymous session carries the confirmation flash.
	rc.Session = session.New()
	rc.User = nil
	s.cookies.writeToken(w, rc.Session.Token)
	rc.Flash(session.FlashSuccess, "you are logged out now!")
	http.Redirect(w, r, "/listings", http.StatusFound)
	return nil
}
