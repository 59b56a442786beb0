package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jobtrack/internal/config"
	"jobtrack/internal/db"
	"jobtrack/internal/model"
	"jobtrack/internal/repository"
	"jobtrack/internal/service"
)

// seedUser is a demo account created when missing. Passwords equal usernames,
// for local development only.
type seedUser struct {
	Username string
	Name     string
	Type     model.UserType
}

var seedUsers = []seedUser{
	{Username: "contractor", Name: "Carl Contractor", Type: model.UserTypeContractor},
	{Username: "homeowner", Name: "Holly Homeowner", Type: model.UserTypeHomeowner},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Job{},
		&model.JobTask{},
		&model.JobChatMessage{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	jobRepo := repository.NewJobRepository(gormDB)

	users, err := ensureUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	if err := ensureSampleJob(ctx, jobRepo, users); err != nil {
		log.Fatalf("Failed to seed sample job: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// ensureUsers creates the demo accounts that don't exist yet and returns all
// of them keyed by username.
func ensureUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, error) {
	result := make(map[string]*model.User, len(seedUsers))

	for _, seed := range seedUsers {
		existing, err := repo.FindByUsername(ctx, seed.Username)
		if err == nil {
			log.Printf("User %q already exists", seed.Username)
			result[seed.Username] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		hash, err := service.HashPassword(seed.Username)
		if err != nil {
			return nil, err
		}
		user := &model.User{
			Username:     seed.Username,
			Name:         seed.Name,
			PasswordHash: hash,
			Type:         seed.Type,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("Created user %q (%s)", seed.Username, seed.Type)
		result[seed.Username] = user
	}

	return result, nil
}

// ensureSampleJob creates one starter job owned by the demo contractor with
// the demo homeowner attached, unless the contractor already has jobs.
func ensureSampleJob(ctx context.Context, repo repository.JobRepository, users map[string]*model.User) error {
	contractor := users["contractor"]
	homeowner := users["homeowner"]

	existing, err := repo.Load(ctx, repository.LoadJobsFilter{
		CreatedByUserID: &contractor.ID,
		Page:            1,
		Limit:           1,
	})
	if err != nil {
		return err
	}
	if existing.Total > 0 {
		log.Println("Sample job already exists")
		return nil
	}

	job, err := repo.Create(ctx, repository.CreateJobPayload{
		Description:     "Repaint house exterior",
		Location:        "12 Elm Street",
		Cost:            decimal.NewFromInt(4500),
		CreatedByUserID: contractor.ID,
		HomeownerIDs:    []uint{homeowner.ID},
		Tasks: []repository.CreateTaskPayload{
			{Description: "Pressure-wash walls", Cost: decimal.NewFromInt(500)},
			{Description: "Prime and paint", Cost: decimal.NewFromInt(4000)},
		},
	})
	if err != nil {
		return err
	}

	log.Printf("Created sample job %d", job.ID)
	return nil
}
