package services

import (
	"strings"
	"unicode"
)

// MinAdminPasswordLength is enforced when admins are created
const MinAdminPasswordLength = 12

// ValidateAdminPassword checks the complexity of a new admin password.
// Every unmet rule is reported under the "senha" field.
func ValidateAdminPassword(password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	var missing []string
	if len([]rune(password)) < MinAdminPasswordLength {
		missing = append(missing, "mínimo de 12 caracteres")
	}
	if !hasUpper {
		missing = append(missing, "uma letra maiúscula")
	}
	if !hasLower {
		missing = append(missing, "uma letra minúscula")
	}
	if !hasNumber {
		missing = append(missing, "um número")
	}
	if !hasSpecial {
		missing = append(missing, "um caractere especial")
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: map[string]string{"senha": "requer " + strings.Join(missing, ", ")}}
	}
	return nil
}
