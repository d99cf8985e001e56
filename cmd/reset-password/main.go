package main

import (
	"flag"
	"log"

	"go-pos-admin/internal/model"
	"go-pos-admin/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Operator tool: reset an admin account's password from the shell when the
// owner is locked out.
func main() {
	email := flag.String("email", "owner@example.com", "email of the account to reset")
	newPassword := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if len(*newPassword) < 6 {
		log.Fatal("provide -password with at least 6 characters")
	}

	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup database
	db := database.ConnectDB()

	// 3. Find the account
	var user model.AdminUser
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("Account %s not found in database: %v", *email, err)
	}

	// 4. Hash and update
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
