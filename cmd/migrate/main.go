package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fairwaylabs/roundtrack/internal/models"
	"github.com/fairwaylabs/roundtrack/pkg/config"
	"github.com/fairwaylabs/roundtrack/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Course{},
		&models.Hole{},
		&models.Round{},
		&models.Shot{},
		&models.ClubDistanceProfile{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_shots_round_hole ON shots(round_id, hole_number)",
		"CREATE INDEX IF NOT EXISTS idx_rounds_course ON rounds(course_id)",
		"CREATE INDEX IF NOT EXISTS idx_holes_course ON holes(course_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"club_distance_profiles",
		"shots",
		"rounds",
		"holes",
		"courses",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	// A short nine-hole course to play with in development. The geometry is
	// real enough for the analysis endpoints to produce sensible output.
	par4 := 4
	par3 := 3

	course := &models.Course{
		Name:      "East Lake Practice Nine",
		Latitude:  33.6809,
		Longitude: -84.3757,
	}
	if err := db.FirstOrCreate(course, models.Course{Name: course.Name}).Error; err != nil {
		return fmt.Errorf("failed to seed course: %w", err)
	}

	holes := []models.Hole{
		{CourseID: course.ID, Number: 1, Par: &par4, TeeLat: 33.6809, TeeLng: -84.3757, GreenLat: 33.6820, GreenLng: -84.3740},
		{CourseID: course.ID, Number: 2, Par: &par3, TeeLat: 33.6822, TeeLng: -84.3738, GreenLat: 33.6830, GreenLng: -84.3730},
		{CourseID: course.ID, Number: 3, Par: &par4, TeeLat: 33.6832, TeeLng: -84.3729, GreenLat: 33.6845, GreenLng: -84.3715},
	}
	for i := range holes {
		err := db.FirstOrCreate(&holes[i], models.Hole{CourseID: course.ID, Number: holes[i].Number}).Error
		if err != nil {
			return fmt.Errorf("failed to seed hole %d: %w", holes[i].Number, err)
		}
	}

	round := &models.Round{
		CourseID:  course.ID,
		StartedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	if err := db.Create(round).Error; err != nil {
		return fmt.Errorf("failed to seed round: %w", err)
	}

	driver := "driver"
	sevenIron := "7iron"
	putter := "putter"
	shots := []models.Shot{
		{RoundID: round.ID, HoleNumber: 1, Sequence: 1, Latitude: 33.6809, Longitude: -84.3757, Club: &driver, Lie: models.LieTee},
		{RoundID: round.ID, HoleNumber: 1, Sequence: 2, Latitude: 33.6813, Longitude: -84.3751, Club: &sevenIron, Lie: models.LieFairway},
		{RoundID: round.ID, HoleNumber: 1, Sequence: 3, Latitude: 33.6819, Longitude: -84.3742, Club: &putter, Lie: models.LieGreen, IsPutt: true},
	}
	for i := range shots {
		if err := db.Create(&shots[i]).Error; err != nil {
			return fmt.Errorf("failed to seed shot: %w", err)
		}
	}

	return nil
}
