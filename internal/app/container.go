package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/file"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DB             db.DBTX
	StoragePath    string
	MaxUploadBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// File Module
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	fileRepo := file.NewRepository(cfg.DB)
	fileService := file.NewService(fileRepo, store)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DB)
	userService := user.NewService(userRepo)

	// Booking store comes first: items read their booking history from it.
	bookingRepo := booking.NewPgxRepository(cfg.DB)

	// Item and Request Modules
	requestRepo := itemrequest.NewPgxRepository(cfg.DB)
	itemRepo := item.NewPgxRepository(cfg.DB)
	itemService := item.NewService(itemRepo, userService, requestRepo, booking.NewItemHistory(bookingRepo), fileService)
	requestService := itemrequest.NewService(requestRepo, userService, itemService)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, userService, itemService)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
		FileService:    fileService,
	})

	return &Container{Router: router}, nil
}
