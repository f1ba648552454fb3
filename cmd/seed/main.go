package main

import (
	"fmt"

	"freeland/internal/model"
	"freeland/pkg/config"
	"freeland/pkg/database"
	"freeland/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
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

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		username string
		password string
		coins    int
	}{
		{"alice", "password123", 100},
		{"bob", "password123", 100},
		{"carol", "password123", 5},
	}

	users := make(map[string]*model.UserModel)

	for _, userData := range testUsers {
		var existing model.UserModel
		if err := db.Where("username = ?", userData.username).First(&existing).Error; err == nil {
			log.Info("User %s already exists, skipping", userData.username)
			users[userData.username] = &existing
			continue
		}

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		user := &model.UserModel{
			Username: userData.username,
			Password: string(hashedPassword),
			Coins:    userData.coins,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.username, err)
		}
		log.Info("Created user: %s", user.Username)
		users[userData.username] = user
	}

	alice := users["alice"]
	bob := users["bob"]

	texts := []string{
		"first post on freeland!",
		"coins for everyone",
		"resharing pays",
	}
	for i, text := range texts {
		post := &model.PostModel{
			UserID:       alice.ID,
			Username:     alice.Username,
			Text:         text,
			Value:        10,
			ShowOriginal: true,
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		log.Info("Created post %d for %s", i+1, alice.Username)

		// bob reshares alice's first post
		if i == 0 {
			if err := db.Create(&model.ReshareModel{UserID: bob.ID, PostID: post.ID}).Error; err != nil {
				return fmt.Errorf("failed to create reshare: %w", err)
			}
			original := post.ID
			wrapper := &model.PostModel{
				UserID:         bob.ID,
				Username:       bob.Username,
				Value:          15,
				OriginalPostID: &original,
				ShowOriginal:   true,
			}
			if err := db.Create(wrapper).Error; err != nil {
				return fmt.Errorf("failed to create reshare wrapper: %w", err)
			}
			if err := db.Model(&model.PostModel{}).Where("id = ?", post.ID).
				UpdateColumns(map[string]interface{}{"reshares": 1, "value": 15}).Error; err != nil {
				return fmt.Errorf("failed to update reshare count: %w", err)
			}
			if err := db.Model(&model.UserModel{}).Where("id = ?", bob.ID).
				UpdateColumn("coins", gorm.Expr("coins + ?", 2)).Error; err != nil {
				return err
			}
			if err := db.Model(&model.UserModel{}).Where("id = ?", alice.ID).
				UpdateColumn("coins", gorm.Expr("coins + ?", 5)).Error; err != nil {
				return err
			}
			log.Info("Created reshare of %s's post by %s", alice.Username, bob.Username)
		}
	}

	return nil
}
