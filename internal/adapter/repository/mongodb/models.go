package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delta-student/wanderlust/internal/domain"
)

// Database documents. Mapping between these and the clean domain entities is
// confined to this package.

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

func fromDomainUser(u *domain.User) *userDocument {
	return &userDocument{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
}

type listingDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       float64              `bson:"price"`
	Location    string               `bson:"location"`
	Country     string               `bson:"country,omitempty"`
	ImageURL    string               `bson:"image_url,omitempty"`
	Owner       primitive.ObjectID   `bson:"owner"`
	Reviews     []primitive.ObjectID `bson:"reviews"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (d *listingDocument) toDomain() *domain.Listing {
	reviews := d.Reviews
	if reviews == nil {
		reviews = []primitive.ObjectID{}
	}
	return &domain.Listing{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		ImageURL:    d.ImageURL,
		Owner:       d.Owner,
		Reviews:     reviews,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func fromDomainListing(l *domain.Listing) *listingDocument {
	reviews := l.Reviews
	if reviews == nil {
		reviews = []primitive.ObjectID{}
	}
	return &listingDocument{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		ImageURL:    l.ImageURL,
		Owner:       l.Owner,
		Reviews:     reviews,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Listing   primitive.ObjectID `bson:"listing"`
	Author    primitive.ObjectID `bson:"author"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID,
		Listing:   d.Listing,
		Author:    d.Author,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
}

func fromDomainReview(r *domain.Review) *reviewDocument {
	return &reviewDocument{
		ID:        r.ID,
		Listing:   r.Listing,
		Author:    r.Author,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
