// Command initdb migrates the schema and seeds the disease catalogue plus a
// demo account for local development.
package main

import (
	"fmt"
	"log/slog"
	"os"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"plantcare/config"
	"plantcare/internal/infra/persistence/model"
)

// diseaseCatalogue is the fixed set of known disease types.
var diseaseCatalogue = []string{
	"root rot",
	"powdery mildew",
	"leaf spot",
	"rust",
	"spider mites",
	"aphids",
	"scale insects",
	"botrytis blight",
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("Database initialization failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Database initialized")
}

func run(logger *slog.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.AccessTokenModel{},
		&model.PlantModel{},
		&model.WaterLogModel{},
		&model.FertilizerLogModel{},
		&model.DiseaseModel{},
		&model.PlantDiseaseModel{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	logger.Info("Schema migrated")

	if err := seedDiseases(db); err != nil {
		return fmt.Errorf("seed diseases: %w", err)
	}
	logger.Info("Disease catalogue seeded", slog.Int("count", len(diseaseCatalogue)))

	if cfg.Env.Env != "production" {
		if err := seedDemoAccount(db, logger); err != nil {
			return fmt.Errorf("seed demo account: %w", err)
		}
	}

	return nil
}

func seedDiseases(db *gorm.DB) error {
	for _, diseaseType := range diseaseCatalogue {
		var existing model.DiseaseModel
		err := db.Where("type = ?", diseaseType).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := db.Create(&model.DiseaseModel{Type: diseaseType}).Error; err != nil {
			return err
		}
	}

	return nil
}

func seedDemoAccount(db *gorm.DB, logger *slog.Logger) error {
	const demoEmail = "example@mail.com"

	var existing model.UserModel
	err := db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		logger.Info("Demo account already present", slog.String("email", demoEmail))

		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("passwordPASSWORD1"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	demo := model.UserModel{
		Email:        demoEmail,
		PasswordHash: string(hash),
		Name:         "Zuzya",
		Plants: []model.PlantModel{
			{
				Name:             "Ficus Leonid",
				HowOftenWatering: 7,
				WaterVolume:      0.5,
				Light:            "full sun",
			},
			{
				Name:             "Aloe Oleg",
				HowOftenWatering: 7,
				WaterVolume:      0.5,
				Light:            "full sun",
			},
		},
	}
	if err := db.Create(&demo).Error; err != nil {
		return err
	}

	logger.Info("Demo account seeded", slog.String("email", demoEmail))

	return nil
}
