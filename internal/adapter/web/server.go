package web

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/platform/logger"
	"github.com/delta-student/wanderlust/internal/platform/metrics"
	"github.com/delta-student/wanderlust/internal/usecase"
)

// Server wires the usecases to the HTTP surface: routing, sessions, flash
// messages and template rendering.
type Server struct {
	users     *usecase.UserUsecase
	listings  *usecase.ListingUsecase
	reviews   *usecase.ReviewUsecase
	sessions  session.Store
	cookies   *cookieCodec
	templates map[string]*template.Template
	metrics   *metrics.Manager
	logger    *logger.Logger
}

// Config holds the server's construction parameters.
type Config struct {
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
}

// NewServer creates the web server. mets may be nil.
func NewServer(
	users *usecase.UserUsecase,
	listings *usecase.ListingUsecase,
	reviews *usecase.ReviewUsecase,
	sessions session.Store,
	cfg Config,
	mets *metrics.Manager,
	log *logger.Logger,
) *Server {
	return &Server{
		users:     users,
		listings:  listings,
		reviews:   reviews,
		sessions:  sessions,
		cookies:   newCookieCodec(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
		templates: loadTemplates(),
		metrics:   mets,
		logger:    log.Named("WebServer"),
	}
}

// handlerFunc is the application handler shape: explicit request context in,
// error out. Returned errors reach the central error renderer.
type handlerFunc func(w http.ResponseWriter, r *http.Request, rc *RequestContext) error

// handle adapts a handlerFunc to net/http. It resolves the session and
// current user before the handler runs and persists the session afterwards,
// so flash messages queued (or consumed) during the request survive exactly
// one render.
func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := s.resolveContext(w, r)

		if err := fn(w, r, rc); err != nil {
			s.renderError(w, rc, err)
		}

		if err := s.sessions.Save(r.Context(), rc.Session); err != nil {
			s.logger.Error("Failed to persist session", zap.Error(err))
		}
	}
}

// resolveContext loads the session referenced by the request cookie, creating
// a fresh one when the cookie is absent, tampered or expired, and rehydrates
// the authenticated user from persistence.
func (s *Server) resolveContext(w http.ResponseWriter, r *http.Request) *RequestContext {
	rc := &RequestContext{}

	if token, ok := s.cookies.readToken(r); ok {
		if sess, err := s.sessions.Get(r.Context(), token); err == nil {
			rc.Session = sess
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to load session", zap.Error(err))
		}
	}
	if rc.Session == nil {
		rc.Session = session.New()
		s.cookies.writeToken(w, rc.Session.Token)
	}

	if rc.Session.UserID != "" {
		user, err := s.users.GetByID(r.Context(), rc.Session.UserID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Error("Failed to rehydrate session user", zap.Error(err))
			}
			rc.Session.UserID = ""
		} else {
			rc.User = user
		}
	}
	return rc
}

// rotateSession replaces the session token after a privilege change (login,
// signup) to rule out session fixation.
func (s *Server) rotateSession(w http.ResponseWriter, r *http.Request, rc *RequestContext) {
	old := rc.Session.Token
	if err := s.sessions.Destroy(r.Context(), old); err != nil {
		s.logger.Error("Failed to destroy session during rotation", zap.Error(err))
	}
	rc.Session.Token = session.New().Token
	s.cookies.writeToken(w, rc.Session.Token)
}

// requireAuth guards protected routes. Unauthenticated requests get an error
// flash and a redirect to the login page, remembering the intended target so
// login can return there.
func (s *Server) requireAuth(fn handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
		if !rc.Authenticated() {
			if r.Method == http.MethodGet {
				rc.Session.ReturnTo = r.URL.RequestURI()
			}
			rc.Flash(session.FlashError, "You must be logged in first!")
			http.Redirect(w, r, "/login", http.StatusFound)
			return nil
		}
		return fn(w, r, rc)
	}
}

// renderError is the central error renderer: domain errors map to a status
// and a user-facing message, everything else becomes a generic 500 with no
// internal detail in the page.
func (s *Server) renderError(w http.ResponseWriter, rc *RequestContext, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = "Page Not Found"
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		message = "You do not have permission to do that"
	default:
		s.logger.Error("Unhandled error reached the error renderer", zap.Error(err))
	}

	s.render(w, rc, status, "error.html", "Error", message)
}

// Handler builds the full HTTP handler: routes plus the outer middleware
// chain (method override first, so rewritten methods reach the router).
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/listings", http.StatusFound)
	}).Methods(http.MethodGet)

	r.HandleFunc("/listings", s.handle(s.listingIndex)).Methods(http.MethodGet)
	r.HandleFunc("/listings/new", s.handle(s.requireAuth(s.listingNewForm))).Methods(http.MethodGet)
	r.HandleFunc("/listings", s.handle(s.requireAuth(s.listingCreate))).Methods(http.MethodPost)
	r.HandleFunc("/listings/{id}", s.handle(s.listingShow)).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}/edit", s.handle(s.requireAuth(s.listingEditForm))).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}", s.handle(s.requireAuth(s.listingUpdate))).Methods(http.MethodPut)
	r.HandleFunc("/listings/{id}", s.handle(s.requireAuth(s.listingDestroy))).Methods(http.MethodDelete)

	r.HandleFunc("/listings/{id}/reviews", s.handle(s.requireAuth(s.reviewCreate))).Methods(http.MethodPost)
	r.HandleFunc("/listings/{id}/reviews/{reviewID}", s.handle(s.requireAuth(s.reviewDestroy))).Methods(http.MethodDelete)

	r.HandleFunc("/signup", s.handle(s.signupForm)).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.handle(s.signup)).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handle(s.loginForm)).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handle(s.login)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handle(s.logout)).Methods(http.MethodGet)

	// Unmatched routes render the 404 page through the central renderer.
	r.NotFoundHandler = s.handle(func(w http.ResponseWriter, req *http.Request, rc *RequestContext) error {
		return domain.ErrNotFound
	})

	return methodOverride(s.instrument(r))
}

// parseID turns a path parameter into an ObjectID; malformed ids behave like
// missing resources.
func parseID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return id, nil
}
