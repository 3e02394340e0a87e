package main

import (
	"context"
	"log"
	"os"
	"time"

	"taskman/internal/auth"
	"taskman/internal/config"
	"taskman/internal/db"
	"taskman/internal/model"
	"taskman/internal/repository"
	"taskman/internal/service"
)

// Seed creates an initial superuser plus a demo user and task so a fresh
// environment is usable immediately. Existing users are left untouched.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	userService := service.NewUserService(userRepo, jwtService)

	adminUsername := getEnv("ADMIN_USERNAME", "admin")
	adminPassword := getEnv("ADMIN_PASSWORD", "changeme1")
	demoUsername := getEnv("DEMO_USERNAME", "demo")
	demoPassword := getEnv("DEMO_PASSWORD", "demopass")

	created := 0
	for _, cred := range []struct{ username, password string }{
		{adminUsername, adminPassword},
		{demoUsername, demoPassword},
	} {
		role, err := userService.Register(ctx, cred.username, cred.password)
		if err != nil {
			log.Printf("Skipping user %s: %v", cred.username, err)
			continue
		}
		log.Printf("Created user %s with role %s", cred.username, role)
		created++
	}

	// Only seed the demo task when the demo user was just created, so
	// repeated runs do not pile up duplicate tasks.
	if created > 0 {
		demo, err := userRepo.FindByUsername(ctx, demoUsername)
		if err == nil && demo.Role != model.RoleSuperuser {
			now := time.Now().UTC()
			task := &model.Task{
				Title:       "Explore the task manager",
				Description: "Log in as the demo user and mark this task completed.",
				Priority:    model.PriorityLow,
				DueDate:     now.Add(7 * 24 * time.Hour),
				AssignedTo:  demo.Username,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := taskRepo.Create(ctx, task); err != nil {
				log.Printf("Failed to create demo task: %v", err)
			} else {
				log.Printf("Created demo task %s assigned to %s", task.ID, demo.Username)
			}
		}
	}

	log.Println("Seed completed")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
