package app

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoragenda/backend/internal/api"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/booking"
	"github.com/pastoragenda/backend/internal/delegation"
	"github.com/pastoragenda/backend/internal/eventtype"
	"github.com/pastoragenda/backend/internal/feed"
	"github.com/pastoragenda/backend/internal/file"
	"github.com/pastoragenda/backend/internal/mailer"
	"github.com/pastoragenda/backend/internal/notifier"
	"github.com/pastoragenda/backend/internal/pastor"
	"github.com/pastoragenda/backend/internal/pkg/storage"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	StoragePath string

	SMTPHost  string
	SMTPPort  string
	EmailFrom string

	ReminderCronSpec string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	ReminderWorker *booking.ReminderWorker
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Pastor accounts
	pastorRepo := pastor.NewPgxRepository(cfg.DBPool)
	pastorService := pastor.NewService(pastorRepo, passwordHasher)

	// Delegated agenda access
	delegationRepo := delegation.NewPgxRepository(cfg.DBPool)
	delegationService := delegation.NewService(delegationRepo, pastorService)

	// Event type templates
	eventTypeRepo := eventtype.NewPgxRepository(cfg.DBPool)
	eventTypeService := eventtype.NewService(eventTypeRepo, pastorService, delegationService)

	// Transactional email. A missing SMTP host falls back to log-only
	// delivery, which keeps local development mail-free.
	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom)
	} else {
		log.Println("SMTP_HOST not set, email delivery disabled (log only)")
		sender = mailer.NewLogSender()
	}
	notifierService := notifier.NewService(pastorService, sender)

	// Bookings
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, eventTypeService, delegationService, notifierService)
	reminderWorker := booking.NewReminderWorker(bookingService, cfg.ReminderCronSpec)

	// Calendar feed
	feedService := feed.NewService(bookingService)

	// Avatar files
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store)

	router := api.NewRouter(api.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		PastorService:     pastorService,
		EventTypeService:  eventTypeService,
		BookingService:    bookingService,
		DelegationService: delegationService,
		FeedService:       feedService,
		FileService:       fileService,
		JWTManager:        jwtManager,
	})

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		ReminderWorker: reminderWorker,
	}, nil
}
