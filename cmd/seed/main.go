package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/config"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/database"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/jwt"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"

	"gorm.io/gorm"
)

var defaultCategories = []usecase.CategoryInput{
	{Name: "Limit ve Türev", Description: "Limit, süreklilik ve türev uygulamaları", Subject: entity.SubjectMatematik, Grade: entity.Grade12},
	{Name: "Fonksiyonlar", Subject: entity.SubjectMatematik, Grade: entity.Grade10},
	{Name: "Kuvvet ve Hareket", Subject: entity.SubjectFizik, Grade: entity.Grade9},
	{Name: "Elektrik ve Manyetizma", Subject: entity.SubjectFizik, Grade: entity.Grade11},
	{Name: "Kimyasal Tepkimeler", Subject: entity.SubjectKimya, Grade: entity.Grade10},
	{Name: "Hücre Bölünmeleri", Subject: entity.SubjectBiyoloji, Grade: entity.Grade10},
	{Name: "Paragraf", Subject: entity.SubjectTurkce, Grade: entity.GradeGraduate},
	{Name: "Osmanlı Tarihi", Subject: entity.SubjectTarih, Grade: entity.Grade10},
}

var firstQuestion = usecase.QuestionInput{
	Question:    "f(x) = x³ - 3x fonksiyonunun yerel ekstremum noktalarını bulunuz.",
	Description: "Türevin işaret tablosunu kullanın.",
	Category:    "matematik",
	Difficulty:  entity.DifficultyMedium,
	Points:      10,
}

func main() {
	migrate := flag.Bool("migrate", true, "run AutoMigrate before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if *migrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			log.Error("Failed to migrate database: %v", err)
			panic(err)
		}
	}

	if err := seedDatabase(context.Background(), db, cfg, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase creates the bootstrap admin, the default categories and a
// question for today. Running it again changes nothing.
func seedDatabase(ctx context.Context, db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	validator, err := usecase.NewValidator()
	if err != nil {
		return err
	}

	userRepo := persistent.NewUserRepository(db)
	gamification := usecase.NewGamificationUseCase(userRepo, log)
	publisher := usecase.NewSyncPublisher(gamification)
	auth := usecase.NewAuthUseCase(userRepo, jwt.NewService(cfg.JWTSecret, cfg.JWTExpiration), validator, cfg.BcryptCost, log)
	categories := usecase.NewCategoryUseCase(persistent.NewCategoryRepository(db), validator, log)
	questions := usecase.NewQuestionUseCase(persistent.NewQuestionRepository(db), persistent.NewLikeRepository(db), publisher, validator, log)

	adminID, err := seedAdmin(ctx, auth, userRepo, cfg, log)
	if err != nil {
		return err
	}

	for _, in := range defaultCategories {
		category, err := categories.Create(ctx, adminID, in)
		switch {
		case apperror.Is(err, apperror.KindConflict):
			log.Info("Category %s already exists, skipping", in.Name)
		case err != nil:
			return fmt.Errorf("create category %s: %w", in.Name, err)
		default:
			log.Info("Created category: %s", category.Name)
		}
	}

	question, err := questions.Create(ctx, adminID, firstQuestion)
	switch {
	case apperror.Is(err, apperror.KindConflict):
		log.Info("A question is already scheduled for today, skipping")
	case err != nil:
		return fmt.Errorf("create daily question: %w", err)
	default:
		log.Info("Scheduled daily question for %s", question.Date)
	}
	return nil
}

func seedAdmin(ctx context.Context, auth usecase.AuthUseCase, userRepo persistent.UserRepository, cfg *config.Config, log *logger.Logger) (string, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return "", fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	existing, err := userRepo.GetByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		log.Info("User %s already exists, skipping", existing.Email)
	case apperror.Is(err, apperror.KindNotFound):
		result, err := auth.Register(ctx, usecase.RegisterInput{
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Device:   "seed",
		})
		if err != nil {
			return "", fmt.Errorf("register admin: %w", err)
		}
		if err := auth.LogoutAll(ctx, result.User.ID); err != nil {
			return "", err
		}
		existing = result.User
		log.Info("Created user: %s", existing.Email)
	default:
		return "", err
	}

	if existing.Role != entity.RoleAdmin {
		if err := userRepo.SetRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
			return "", fmt.Errorf("promote admin: %w", err)
		}
		log.Info("Granted admin role to %s", existing.Email)
	}
	return existing.ID, nil
}
