package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/booking"
	bookingHttp "github.com/pastoragenda/backend/internal/booking/http"
	"github.com/pastoragenda/backend/internal/delegation"
	delegationHttp "github.com/pastoragenda/backend/internal/delegation/http"
	"github.com/pastoragenda/backend/internal/eventtype"
	eventtypeHttp "github.com/pastoragenda/backend/internal/eventtype/http"
	"github.com/pastoragenda/backend/internal/feed"
	feedHttp "github.com/pastoragenda/backend/internal/feed/http"
	"github.com/pastoragenda/backend/internal/file"
	fileHttp "github.com/pastoragenda/backend/internal/file/http"
	"github.com/pastoragenda/backend/internal/pastor"
	pastorHttp "github.com/pastoragenda/backend/internal/pastor/http"
)

// Config carries the services and settings the router wires together.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	PastorService     pastor.Service
	EventTypeService  eventtype.Service
	BookingService    booking.Service
	DelegationService delegation.Service
	FeedService       feed.Service
	FileService       file.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles global middleware (CORS, logging, recovery) and
// registers every module's routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	sysAdminMiddleware := RequireSystemAdmin(cfg.PastorService)

	pastorHandler := pastorHttp.NewHandler(cfg.PastorService, cfg.JWTManager)
	eventTypeHandler := eventtypeHttp.NewHandler(cfg.EventTypeService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	delegationHandler := delegationHttp.NewHandler(cfg.DelegationService)
	feedHandler := feedHttp.NewHandler(cfg.FeedService)
	fileHandler := fileHttp.NewHandler(cfg.FileService, cfg.PastorService)

	v1 := r.Group("/v1")
	{
		pastorHttp.RegisterRoutes(v1, pastorHandler, authMiddleware, sysAdminMiddleware)
		eventtypeHttp.RegisterRoutes(v1, eventTypeHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		delegationHttp.RegisterRoutes(v1, delegationHandler, authMiddleware)
		feedHttp.RegisterRoutes(v1, feedHandler, authMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
	}

	return r
}
