package web

import (
	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/domain"
)

// RequestContext carries the per-request state handlers need: the session
// and, when authenticated, the rehydrated user. It is resolved once per
// request and passed explicitly; there is no ambient request-scoped global.
type RequestContext struct {
	Session *session.Session
	User    *domain.User
}

// Authenticated reports whether the request has a logged-in user.
func (rc *RequestContext) Authenticated() bool {
	return rc.User != nil
}

// Flash queues a one-shot message for the next rendered page.
func (rc *RequestContext) Flash(kind, message string) {
	rc.Session.AddFlash(kind, message)
}
