package main

import (
	"contact_flow_app_go/models"
	"contact_flow_app_go/services"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var errAlreadyAdmin = errors.New("admin with this email already exists")

// saveAdmin creates an admin account, or promotes the existing account for
// email. A promoted account takes the new password and is reactivated.
func saveAdmin(database *gorm.DB, name, email, password string) (*models.User, bool, error) {
	hashedPassword, err := services.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	var existing models.User
	err = database.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil, false, fmt.Errorf("%s: %w", email, errAlreadyAdmin)
		}
		updates := map[string]interface{}{
			"papel":                 models.RoleAdmin,
			"password":              hashedPassword,
			"is_active":             true,
			"failed_login_attempts": 0,
			"lockout_until":         nil,
		}
		if err := database.Model(&existing).Updates(updates).Error; err != nil {
			return nil, false, fmt.Errorf("failed to promote user: %w", err)
		}
		if err := database.First(&existing, existing.ID).Error; err != nil {
			return nil, false, err
		}
		return &existing, true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := database.Create(user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, false, nil
}
