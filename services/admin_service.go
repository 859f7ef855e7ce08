package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldtrack/apperrors"
	"fieldtrack/audit"
	"fieldtrack/database"
	"fieldtrack/utils"
)

const resetTokenTTL = time.Hour

// UpdateAdminInput carries the optional fields of an admin edit. Nil fields
// are left untouched.
type UpdateAdminInput struct {
	Email    *string
	Name     *string
	Password *string
	IsActive *bool
}

// AdminService owns admin accounts: authentication, password reset and the
// CRUD operations the super-admin tier performs on them.
type AdminService struct {
	db        *gorm.DB
	recorder  *audit.Recorder
	mail      *MailService
	clientURL string
}

// NewAdminService returns an AdminService. mail may be nil in tests; reset
// mails are then skipped with a warning.
func NewAdminService(db *gorm.DB, recorder *audit.Recorder, mail *MailService, clientURL string) *AdminService {
	return &AdminService{db: db, recorder: recorder, mail: mail, clientURL: clientURL}
}

// Authenticate verifies email/password for an active admin and stamps the
// last login time
func (s *AdminService) Authenticate(email, password string) (*database.Admin, error) {
	var admin database.Admin
	if err := s.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("Invalid email or password")
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, apperrors.NewValidation("Account is deactivated")
	}
	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperrors.NewValidation("Invalid email or password")
	}

	now := time.Now()
	if err := s.db.Model(&admin).Update("last_login", now).Error; err != nil {
		log.Printf("Warning: failed to update last login time: %v", err)
	}
	admin.LastLogin = &now
	return &admin, nil
}

// Get returns one admin by id
func (s *AdminService) Get(id int64) (*database.Admin, error) {
	var admin database.Admin
	if err := s.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Admin not found")
		}
		return nil, err
	}
	return &admin, nil
}

// List returns all admins, newest first
func (s *AdminService) List() ([]database.Admin, error) {
	var admins []database.Admin
	err := s.db.Order("created_at DESC").Find(&admins).Error
	return admins, err
}

// Count returns the number of admin accounts
func (s *AdminService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&database.Admin{}).Count(&count).Error
	return count, err
}

// Create adds a new admin account, audited against the acting super admin
func (s *AdminService) Create(email, password, name string, actor Actor, ip string) (*database.Admin, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidation("Email and password are required")
	}

	var existing database.Admin
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewValidation("Email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := database.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionCreate,
			EntityType:      database.EntityAdmin,
			EntityID:        admin.ID,
			EntityName:      displayName(admin.Name, admin.Email),
			PerformedByID:   actor.ID,
			PerformedByType: actor.Type,
			PerformedByName: actor.Name,
			NewValues:       audit.Snapshot{"email": email, "name": name},
			Description:     fmt.Sprintf("Created new admin: %s", admin.Email),
			IPAddress:       ip,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Update edits an admin account; only non-nil input fields change
func (s *AdminService) Update(id int64, input UpdateAdminInput, actor Actor, ip string) (*database.Admin, error) {
	admin, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	oldValues := audit.Snapshot{
		"email":     admin.Email,
		"name":      admin.Name,
		"is_active": admin.IsActive,
	}

	updates := map[string]interface{}{}
	if input.Email != nil && *input.Email != admin.Email {
		var existing database.Admin
		err := s.db.Where("email = ? AND id <> ?", *input.Email, id).First(&existing).Error
		if err == nil {
			return nil, apperrors.NewValidation("Email already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		updates["email"] = *input.Email
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, apperrors.NewValidation("No updates provided")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.Admin{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(admin, id).Error; err != nil {
			return err
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionUpdate,
			EntityType:      database.EntityAdmin,
			EntityID:        admin.ID,
			EntityName:      displayName(admin.Name, admin.Email),
			PerformedByID:   actor.ID,
			PerformedByType: actor.Type,
			PerformedByName: actor.Name,
			OldValues:       oldValues,
			NewValues: audit.Snapshot{
				"email":     admin.Email,
				"name":      admin.Name,
				"is_active": admin.IsActive,
			},
			Description: fmt.Sprintf("Updated admin: %s", admin.Email),
			IPAddress:   ip,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Delete removes an admin account
func (s *AdminService) Delete(id int64, actor Actor, ip string) error {
	admin, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&database.Admin{}, id).Error; err != nil {
			return err
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionDelete,
			EntityType:      database.EntityAdmin,
			EntityID:        admin.ID,
			EntityName:      displayName(admin.Name, admin.Email),
			PerformedByID:   actor.ID,
			PerformedByType: actor.Type,
			PerformedByName: actor.Name,
			OldValues:       audit.Snapshot{"email": admin.Email, "name": admin.Name},
			Description:     fmt.Sprintf("Deleted admin: %s", admin.Email),
			IPAddress:       ip,
		})
		return err
	})
}

// ChangePassword sets a new password for a logged-in admin after verifying
// the current one
func (s *AdminService) ChangePassword(id int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidation("Current password and new password are required")
	}

	admin, err := s.Get(id)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(currentPassword, admin.PasswordHash) {
		return apperrors.NewValidation("Current password is incorrect")
	}
	if len(newPassword) < 8 {
		return apperrors.NewValidation("Password must be at least 8 characters long")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&database.Admin{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// ForgotPassword issues a reset token for the given email and mails the
// reset link. An unknown email returns success without doing anything, so
// the endpoint does not leak which addresses exist.
func (s *AdminService) ForgotPassword(email string) error {
	if email == "" {
		return apperrors.NewValidation("Email is required")
	}

	var admin database.Admin
	if err := s.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := database.PasswordResetToken{
		AdminID:   admin.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.db.Create(&token).Error; err != nil {
		return err
	}

	if s.mail == nil {
		log.Printf("Warning: mail service not configured, skipping reset mail for %s", email)
		return nil
	}
	resetLink := fmt.Sprintf("%s/admin/reset-password/%s", s.clientURL, token.Token)
	return s.mail.SendPasswordResetEmail(admin.Email, displayName(admin.Name, admin.Email), resetLink)
}

// VerifyResetToken checks a reset token is known, unused and unexpired
func (s *AdminService) VerifyResetToken(token string) (*database.PasswordResetToken, error) {
	var reset database.PasswordResetToken
	err := s.db.Where("token = ? AND used = ?", token, false).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("Invalid or expired reset token")
		}
		return nil, err
	}
	if time.Now().After(reset.ExpiresAt) {
		return nil, apperrors.NewValidation("Invalid or expired reset token")
	}
	return &reset, nil
}

// ResetPassword consumes a valid token and sets the new password
func (s *AdminService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.NewValidation("Password must be at least 6 characters")
	}

	reset, err := s.VerifyResetToken(token)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.Admin{}).
			Where("id = ?", reset.AdminID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Model(&database.PasswordResetToken{}).
			Where("id = ?", reset.ID).
			Update("used", true).Error
	})
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
