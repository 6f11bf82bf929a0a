package app

import (
	"isa/internal/ai"
	"isa/internal/config"
	"isa/internal/repo"
	"isa/internal/services"
	"isa/internal/whatsapp"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB     *gorm.DB
	Config *config.Config

	IdentityRepo *repo.IdentityRepository
	ProductRepo  *repo.ProductRepository
	AIConfigRepo *repo.AIConfigRepository

	StorageService *services.StorageService
	WhatsAppClient *whatsapp.Client
	ChatService    *ai.Service
}

// NewServices creates and wires all application services
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	identityRepo := repo.NewIdentityRepository(db)
	productRepo := repo.NewProductRepository(db)
	aiConfigRepo := repo.NewAIConfigRepository(db)

	// Welcome media presigning is optional; without S3 credentials the
	// stored URLs are used as is
	var media ai.MediaResolver
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("S3 storage not available, welcome media will not be presigned")
	} else {
		media = storageService
	}

	aggregator := ai.NewConfigAggregator(aiConfigRepo)
	gateway := ai.NewGateway(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.Models)
	chatService := ai.NewService(identityRepo, productRepo, aggregator, gateway, media)

	return &Services{
		DB:             db,
		Config:         cfg,
		IdentityRepo:   identityRepo,
		ProductRepo:    productRepo,
		AIConfigRepo:   aiConfigRepo,
		StorageService: storageService,
		WhatsAppClient: whatsapp.NewClient(cfg),
		ChatService:    chatService,
	}
}
