package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/domain"
)

// GET /listings
func (s *Server) listingIndex(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	listings, err := s.listings.List(r.Context())
	if err != nil {
		return err
	}
	s.render(w, rc, http.StatusOK, "index.html", "All Listings", listings)
	return nil
}

// GET /listings/new
func (s *Server) listingNewForm(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	s.render(w, rc, http.StatusOK, "new.html", "New Listing", nil)
	return nil
}

// POST /listings
func (s *Server) listingCreate(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	in, err := listingInputFromForm(r)
	if err != nil {
		rc.Flash(session.FlashError, err.Error())
		http.Redirect(w, r, "/listings/new", http.StatusFound)
		return nil
	}

	listing, err := s.listings.Create(r.Context(), rc.User.ID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			rc.Flash(session.FlashError, err.Error())
			http.Redirect(w, r, "/listings/new", http.StatusFound)
			return nil
		}
		return err
	}

	rc.Flash(session.FlashSuccess, "New Listing Created!")
	http.Redirect(w, r, "/listings/"+listing.ID.Hex(), http.StatusFound)
	return nil
}

// GET /listings/{id}
func (s *Server) listingShow(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	id, err := parseID(r, "id")
	if err != nil {
		return err
	}
	detail, err := s.listings.Get(r.Context(), id)
	if err != nil {
		return err
	}
	s.render(w, rc, http.StatusOK, "show.html", detail.Listing.Title, detail)
	return nil
}

// GET /listings/{id}/edit
func (s *Server) listingEditForm(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	id, err := parseID(r, "id")
	if err != nil {
		return err
	}
	detail, err := s.listings.Get(r.Context(), id)
	if err != nil {
		return err
	}
	if detail.Listing.Owner != rc.User.ID {
		rc.Flash(session.FlashError, "You are not the owner of this listing!")
		http.Redirect(w, r, "/listings/"+id.Hex(), http.StatusFound)
		return nil
	}
	s.render(w, rc, http.StatusOK, "edit.html", "Edit Listing", detail.Listing)
	return nil
}

// PUT /listings/{id}
func (s *Server) listingUpdate(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	id, err := parseID(r, "id")
	if err != nil {
		return err
	}

	update, err := listingUpdateFromForm(r)
	if err != nil {
		rc.Flash(session.FlashError, err.Error())
		http.Redirect(w, r, "/listings/"+id.Hex()+"/edit", http.StatusFound)
		return nil
	}

	if err := s.listings.Update(r.Context(), id, rc.User.ID, update); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			rc.Flash(session.FlashError, err.Error())
			http.Redirect(w, r, "/listings/"+id.Hex()+"/edit", http.StatusFound)
			return nil
		case errors.Is(err, domain.ErrForbidden):
			rc.Flash(session.FlashError, "You are not the owner of this listing!")
			http.Redirect(w, r, "/listings/"+id.Hex(), http.StatusFound)
			return nil
		default:
			return err
		}
	}

	rc.Flash(session.FlashSuccess, "Listing Updated!")
	http.Redirect(w, r, "/listings/"+id.Hex(), http.StatusFound)
	return nil
}

// DELETE /listings/{id}
func (s *Server) listingDestroy(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	id, err := parseID(r, "id")
	if err != nil {
		return err
	}

	if err := s.listings.Delete(r.Context(), id, rc.User.ID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			rc.Flash(session.FlashError, "You are not the owner of this listing!")
			http.Redirect(w, r, "/listings/"+id.Hex(), http.StatusFound)
			return nil
		}
		return err
	}

	rc.Flash(session.FlashSuccess, "Listing Deleted!")
	http.Redirect(w, r, "/listings", http.StatusFound)
	return nil
}

func listingInputFromForm(r *http.Request) (domain.ListingInput, error) {
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return domain.ListingInput{}, errors.New("price must be a number")
	}
	return domain.ListingInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       price,
		Location:    r.FormValue("location"),
		Country:     r.FormValue("country"),
		ImageURL:    r.FormValue("image_url"),
	}, nil
}

// listingUpdateFromForm builds a partial update from the submitted fields
// only, so an edit form that omits a field leaves it untouched.
func listingUpdateFromForm(r *http.Request) (domain.ListingUpdate, error) {
	if err := r.ParseForm(); err != nil {
		return domain.ListingUpdate{}, errors.New("malformed form data")
	}

	var update domain.ListingUpdate
	if _, ok := r.PostForm["title"]; ok {
		v := r.PostFormValue("title")
		update.Title = &v
	}
	if _, ok := r.PostForm["description"]; ok {
		v := r.PostFormValue("description")
		update.Description = &v
	}
	if _, ok := r.PostForm["price"]; ok {
		price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
		if err != nil {
			return domain.ListingUpdate{}, errors.New("price must be a number")
		}
		update.Price = &price
	}
	if _, ok := r.PostForm["location"]; ok {
		v := r.PostFormValue("location")
		update.Location = &v
	}
	if _, ok := r.PostForm["country"]; ok {
		v := r.PostFormValue("country")
		update.Country = &v
	}
	if _, ok := r.PostForm["image_url"]; ok {
		v := r.PostFormValue("image_url")
		update.ImageURL = &v
	}
	return update, nil
}
