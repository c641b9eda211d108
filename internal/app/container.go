// Package app wires configuration, storage and handlers together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emZubair/Calendy/internal/booking/application/commands"
	"github.com/emZubair/Calendy/internal/booking/application/queries"
	"github.com/emZubair/Calendy/internal/booking/application/services"
	bookingDomain "github.com/emZubair/Calendy/internal/booking/domain"
	bookingPersistence "github.com/emZubair/Calendy/internal/booking/infrastructure/persistence"
	identityCommands "github.com/emZubair/Calendy/internal/identity/application/commands"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
	identityPersistence "github.com/emZubair/Calendy/internal/identity/infrastructure/persistence"
	sharedApplication "github.com/emZubair/Calendy/internal/shared/application"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	_ "github.com/emZubair/Calendy/internal/shared/infrastructure/database/postgres" // driver registration
	_ "github.com/emZubair/Calendy/internal/shared/infrastructure/database/sqlite"   // driver registration
	"github.com/emZubair/Calendy/internal/shared/infrastructure/migrations"
	"github.com/emZubair/Calendy/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	DB     database.Connection

	MeetingRepo bookingDomain.Repository
	UserRepo    identityDomain.Repository
	UnitOfWork  sharedApplication.UnitOfWork

	CreateOrUpdateMeeting *commands.CreateOrUpdateMeetingHandler
	ReserveMeeting        *commands.ReserveMeetingHandler
	DeleteMeeting         *commands.DeleteMeetingHandler
	RegisterUser          *identityCommands.RegisterUserHandler

	ListMeetings         *queries.ListMeetingsHandler
	ListBookableMeetings *queries.ListBookableMeetingsHandler
	ListMyMeetings       *queries.ListMyMeetingsHandler
	ListMeetingsByOwner  *queries.ListMeetingsByOwnerHandler
}

// NewContainer builds the dependency graph: connects to the database,
// applies migrations and constructs every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connected", "driver", conn.Driver().String())

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var meetingRepo bookingDomain.Repository
	var userRepo identityDomain.Repository
	switch conn.Driver() {
	case database.DriverPostgres:
		meetingRepo = bookingPersistence.NewPostgresMeetingRepository(conn)
		userRepo = identityPersistence.NewPostgresUserRepository(conn)
	default:
		meetingRepo = bookingPersistence.NewSQLiteMeetingRepository(conn)
		userRepo = identityPersistence.NewSQLiteUserRepository(conn)
	}

	uow := database.NewUnitOfWork(conn)
	availability := services.NewAvailabilityChecker(meetingRepo)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     conn,

		MeetingRepo: meetingRepo,
		UserRepo:    userRepo,
		UnitOfWork:  uow,

		CreateOrUpdateMeeting: commands.NewCreateOrUpdateMeetingHandler(meetingRepo, userRepo, availability, uow, nil),
		ReserveMeeting:        commands.NewReserveMeetingHandler(meetingRepo, uow, nil),
		DeleteMeeting:         commands.NewDeleteMeetingHandler(meetingRepo, uow),
		RegisterUser:          identityCommands.NewRegisterUserHandler(userRepo, uow),

		ListMeetings:         queries.NewListMeetingsHandler(meetingRepo, userRepo),
		ListBookableMeetings: queries.NewListBookableMeetingsHandler(meetingRepo, userRepo, nil),
		ListMyMeetings:       queries.NewListMyMeetingsHandler(meetingRepo, userRepo),
		ListMeetingsByOwner:  queries.NewListMeetingsByOwnerHandler(meetingRepo, userRepo),
	}, nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
