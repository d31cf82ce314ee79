// Command seed wipes the listing and review collections and repopulates them
// with demo data owned by a demo account, for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	mongoRepo "github.com/delta-student/wanderlust/internal/adapter/repository/mongodb"
	"github.com/delta-student/wanderlust/internal/config"
	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/platform/logger"
)

const (
	demoUsername = "delta-student"
	demoEmail    = "student@example.com"
	demoPassword = "helloworld"
)

var sampleListings = []domain.ListingInput{
	{
		Title:       "Cozy Beachfront Cottage",
		Description: "Escape to this charming beachfront cottage for a relaxing getaway. Enjoy stunning ocean views from the private deck.",
		Price:       1500,
		Location:    "Malibu",
		Country:     "United States",
		ImageURL:    "https://images.unsplash.com/photo-1552733407-5d5c46c3bb3b?w=800",
	},
	{
		Title:       "Modern Loft in Downtown",
		Description: "Stay in the heart of the city in this stylish loft apartment. Walking distance to cafes, galleries and nightlife.",
		Price:       1200,
		Location:    "New York City",
		Country:     "United States",
		ImageURL:    "https://images.unsplash.com/photo-1501785888041-af3ef285b470?w=800",
	},
	{
		Title:       "Mountain Retreat",
		Description: "Unplug and unwind in this peaceful mountain cabin surrounded by pine forest. Fireplace, hot tub and hiking trails at the door.",
		Price:       1000,
		Location:    "Aspen",
		Country:     "United States",
		ImageURL:    "https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=800",
	},
	{
		Title:       "Historic Canal House",
		Description: "A beautifully restored 17th-century canal house with original beams and a private courtyard garden.",
		Price:       1800,
		Location:    "Amsterdam",
		Country:     "Netherlands",
		ImageURL:    "https://images.unsplash.com/photo-1534351590666-13e3e96b5017?w=800",
	},
	{
		Title:       "Seaside Villa with Pool",
		Description: "Whitewashed villa overlooking the Aegean. Infinity pool, shaded terraces and a five-minute walk to the harbour.",
		Price:       2500,
		Location:    "Santorini",
		Country:     "Greece",
		ImageURL:    "https://images.unsplash.com/photo-1613395877344-13d4a8e0d49e?w=800",
	},
	{
		Title:       "Safari Lodge Tent",
		Description: "Luxury canvas tent on a private reserve. Wake to the sound of the savannah and join guided game drives at dawn.",
		Price:       4000,
		Location:    "Serengeti",
		Country:     "Tanzania",
		ImageURL:    "https://images.unsplash.com/photo-1493246507139-91e8fad9978e?w=800",
	},
	{
		Title:       "Ski-in Chalet",
		Description: "Timber chalet right on the piste. Boot warmers, log fire and a sauna for after the slopes.",
		Price:       3000,
		Location:    "Zermatt",
		Country:     "Switzerland",
		ImageURL:    "https://images.unsplash.com/photo-1502784444187-359ac186c5bb?w=800",
	},
	{
		Title:       "Treehouse Among the Palms",
		Description: "A hand-built treehouse minutes from the surf. Outdoor shower, hammock and all the birdsong you can take.",
		Price:       800,
		Location:    "Ubud",
		Country:     "Indonesia",
		ImageURL:    "https://images.unsplash.com/photo-1470770841072-f978cf4d019e?w=800",
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.New(logger.DefaultConfig())
	defer appLogger.Sync()

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	// Wipe listings and their reviews so the seed is idempotent.
	if _, err := db.Collection("listings").DeleteMany(ctx, bson.M{}); err != nil {
		appLogger.Fatal("Failed to wipe listings collection", zap.Error(err))
	}
	if _, err := db.Collection("reviews").DeleteMany(ctx, bson.M{}); err != nil {
		appLogger.Fatal("Failed to wipe reviews collection", zap.Error(err))
	}
	appLogger.Info("Wiped listings and reviews collections")

	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize UserRepository", zap.Error(err))
	}
	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingRepository", zap.Error(err))
	}

	owner, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		appLogger.Fatal("Failed to ensure demo user", zap.Error(err))
	}
	appLogger.Info("Demo user ready", zap.String("username", owner.Username), zap.String("user_id", owner.ID.Hex()))

	for _, input := range sampleListings {
		listing, err := domain.NewListing(owner.ID, input)
		if err != nil {
			appLogger.Fatal("Invalid sample listing", zap.String("title", input.Title), zap.Error(err))
		}
		if err := listingRepo.Create(ctx, listing); err != nil {
			appLogger.Fatal("Failed to insert sample listing", zap.String("title", input.Title), zap.Error(err))
		}
	}

	appLogger.Info("Seed data initialized", zap.Int("listings", len(sampleListings)))
}

func ensureDemoUser(ctx context.Context, users *mongoRepo.UserRepository) (*domain.User, error) {
	if existing, err := users.FindByUsername(ctx, demoUsername); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err := domain.NewUser(demoUsername, demoEmail)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
