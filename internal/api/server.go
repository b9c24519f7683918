package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/campusfest/eventhub-api/docs"
	v1 "github.com/campusfest/eventhub-api/internal/api/handler/v1"
	"github.com/campusfest/eventhub-api/internal/api/middleware"
	"github.com/campusfest/eventhub-api/internal/config"
	"github.com/campusfest/eventhub-api/internal/repository"
	"github.com/campusfest/eventhub-api/internal/repository/dao"
	"github.com/campusfest/eventhub-api/internal/service"
)

// Infra holds the collaborators that live outside the database.
type Infra struct {
	Images    service.ImageStore
	Cache     service.EventCache
	Publisher service.RegistrationPublisher
	Feed      v1.RegistrationFeed
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type repositories struct {
	users    *repository.UserRepository
	events   *repository.EventRepository
	bookings *repository.BookingRepository
}

func NewServer(conf *config.AppConfig, db *gorm.DB, infra Infra) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	repos := repositories{
		users:    repository.NewUserRepository(dao.NewUserDAO(db)),
		events:   repository.NewEventRepository(dao.NewEventDAO(db)),
		bookings: repository.NewBookingRepository(dao.NewBookingDAO(db)),
	}
	userSvc := service.NewUserService(repos.users)
	authenticator := middleware.NewAuthenticator(conf.API.JWTSigningKey, userSvc)

	s.MountHandlers(
		authenticator,
		s.initAuthHandler(repos),
		s.initEventHandler(repos, infra),
		s.initBookingHandler(repos, infra),
		v1.NewFeedHandler(infra.Feed, conf.API.AllowedCORSDomains),
	)

	return s
}

func (s *Server) initAuthHandler(repos repositories) *v1.AuthHandler {
	svc := service.NewAuthService(repos.users)
	return v1.NewAuthHandler(s.Config.API, svc)
}

func (s *Server) initEventHandler(repos repositories, infra Infra) *v1.EventHandler {
	svc := service.NewEventService(repos.events, repos.bookings, infra.Images, infra.Cache)
	return v1.NewEventHandler(svc, s.Config.Media.MaxUploadBytes)
}

func (s *Server) initBookingHandler(repos repositories, infra Infra) *v1.BookingHandler {
	svc := service.NewBookingService(repos.bookings, repos.events, infra.Cache, infra.Publisher)
	return v1.NewBookingHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authenticator *middleware.Authenticator,
	authHandler *v1.AuthHandler,
	eventHandler *v1.EventHandler,
	bookingHandler *v1.BookingHandler,
	feedHandler *v1.FeedHandler,
) {
	const basePath = "/api"

	admin := s.Router.Group(basePath + "/admin")
	{
		admin.POST("/login", authHandler.HandleLogin)
		admin.POST("/signup", authHandler.HandleSignup)
		admin.POST("/register-event", bookingHandler.HandleRegisterEvent)
		admin.GET("/event-participants/:eventId", authenticator.VerifyJWT(), bookingHandler.HandleEventParticipants)
		admin.GET("/registrations/feed", authenticator.VerifyJWTQuery(), feedHandler.HandleRegistrationFeed)
	}

	events := s.Router.Group(basePath + "/events")
	{
		events.GET("", eventHandler.HandleListEvents)
		events.GET("/:id", eventHandler.HandleGetEvent)
	}

	managed := s.Router.Group(basePath+"/events", authenticator.VerifyJWT())
	{
		managed.POST("/create", eventHandler.HandleCreateEvent)
		managed.PUT("/:id", eventHandler.HandleUpdateEvent)
		managed.DELETE("/:id", eventHandler.HandleDeleteEvent)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "College event registration API"
	docs.SwaggerInfo.Description = "Events, student registrations and admin management."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
