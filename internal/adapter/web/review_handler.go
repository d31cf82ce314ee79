package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/domain"
)

// POST /listings/{id}/reviews
func (s *Server) reviewCreate(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	listingID, err := parseID(r, "id")
	if err != nil {
		return err
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		rc.Flash(session.FlashError, "rating must be a number between 1 and 5")
		http.Redirect(w, r, "/listings/"+listingID.Hex(), http.StatusFound)
		return nil
	}
	comment := r.FormValue("comment")

	if _, err := s.reviews.Create(r.Context(), listingID, rc.User.ID, rating, comment); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			rc.Flash(session.FlashError, err.Error())
			http.Redirect(w, r, "/listings/"+listingID.Hex(), http.StatusFound)
			return nil
		}
		return err
	}

	rc.Flash(session.FlashSuccess, "New Review Created!")
	http.Redirect(w, r, "/listings/"+listingID.Hex(), http.StatusFound)
	return nil
}

// DELETE /listings/{id}/reviews/{reviewID}
func (s *Server) reviewDestroy(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	listingID, err := parseID(r, "id")
	if err != nil {
		return err
	}
	reviewID, err := parseID(r, "reviewID")
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(r.Context(), listingID, reviewID); err != nil {
		return err
	}

	rc.Flash(session.FlashSuccess, "Review Deleted!")
	http.Redirect(w, r, "/listings/"+listingID.Hex(), http.StatusFound)
	return nil
}
