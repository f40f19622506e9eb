package db

import (
	"os"

	"gather/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=gather port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	log.Info().Msg("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed")

	// Seed initial topics
	seedTopics()
}

// Migrate applies the schema. Split out so tests can run it against their own
// connection.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Community{},
		&models.Role{},
		&models.Post{},
		&models.Image{},
		&models.Upvote{},
	)
}

func seedTopics() {
	var count int64
	DB.Model(&models.Topic{}).Count(&count)
	if count > 0 {
		log.Info().Msg("Topics already seeded, skipping")
		return
	}

	titles := []string{
		"Technology", "Gaming", "Science", "Sports",
		"Movies", "Music", "News", "Pets",
	}

	for _, title := range titles {
		topic := models.Topic{Title: title}
		if err := DB.Create(&topic).Error; err != nil {
			log.Error().Err(err).Str("topic", title).Msg("Failed to create topic")
		}
	}
	log.Info().Msg("Initial topics created")
}
