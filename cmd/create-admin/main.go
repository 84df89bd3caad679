package main

import (
	"bufio"
	"contact_flow_app_go/config"
	"contact_flow_app_go/db"
	"contact_flow_app_go/models"
	"contact_flow_app_go/services"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Admin ===")
	fmt.Println()

	fmt.Print("Nome: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))

	// Get password securely
	fmt.Print("Senha: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println() // New line after password input

	if name == "" || email == "" || password == "" {
		log.Fatal("Name, email, and password are required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		log.Fatalf("Invalid email %q: %v", email, err)
	}
	if err := services.ValidateAdminPassword(password); err != nil {
		log.Fatalf("Weak password: %v", err)
	}

	user, promoted, err := saveAdmin(db.DB, name, strings.ToLower(addr.Address), password)
	if err != nil {
		log.Fatalf("Failed to save admin: %v", err)
	}
	if promoted {
		fmt.Printf("✓ Existing user %s promoted to admin, password reset and account reactivated\n", user.Email)
		return
	}

	fmt.Println()
	fmt.Println("✓ Admin created successfully!")
	fmt.Printf("  ID: %d\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	fmt.Printf("Sign in with POST %s/api/auth/login\n", strings.TrimSuffix(cfg.AppURL, "/"))
}
