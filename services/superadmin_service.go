package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fieldtrack/apperrors"
	"fieldtrack/audit"
	"fieldtrack/database"
	"fieldtrack/utils"
)

// SuperAdminService owns the super-admin credential store. It is a separate
// tier from AdminService, never a role flag on it.
type SuperAdminService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewSuperAdminService returns a SuperAdminService using db for storage
func NewSuperAdminService(db *gorm.DB, recorder *audit.Recorder) *SuperAdminService {
	return &SuperAdminService{db: db, recorder: recorder}
}

// Authenticate verifies email/password for an active super admin
func (s *SuperAdminService) Authenticate(email, password string) (*database.SuperAdmin, error) {
	var superAdmin database.SuperAdmin
	if err := s.db.Where("email = ?", email).First(&superAdmin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("Invalid email or password")
		}
		return nil, err
	}
	if !superAdmin.IsActive {
		return nil, apperrors.NewValidation("Account is deactivated")
	}
	if !utils.CheckPasswordHash(password, superAdmin.PasswordHash) {
		return nil, apperrors.NewValidation("Invalid email or password")
	}

	now := time.Now()
	_ = s.db.Model(&superAdmin).Update("last_login", now).Error
	superAdmin.LastLogin = &now
	return &superAdmin, nil
}

// Get returns one super admin by id
func (s *SuperAdminService) Get(id int64) (*database.SuperAdmin, error) {
	var superAdmin database.SuperAdmin
	if err := s.db.First(&superAdmin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Super admin not found")
		}
		return nil, err
	}
	return &superAdmin, nil
}

// UpdateProfile edits the super admin's own name and email
func (s *SuperAdminService) UpdateProfile(id int64, name, email *string, ip string) (*database.SuperAdmin, error) {
	if name == nil && email == nil {
		return nil, apperrors.NewValidation("No updates provided")
	}

	superAdmin, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	oldValues := audit.Snapshot{"name": superAdmin.Name, "email": superAdmin.Email}

	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if email != nil {
		updates["email"] = *email
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.SuperAdmin{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(superAdmin, id).Error; err != nil {
			return err
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionUpdate,
			EntityType:      database.EntitySuperAdmin,
			EntityID:        superAdmin.ID,
			EntityName:      displayName(superAdmin.Name, superAdmin.Email),
			PerformedByID:   superAdmin.ID,
			PerformedByType: database.ActorSuperAdmin,
			PerformedByName: superAdmin.Name,
			OldValues:       oldValues,
			NewValues:       audit.Snapshot{"name": superAdmin.Name, "email": superAdmin.Email},
			Description:     "Updated super admin profile",
			IPAddress:       ip,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return superAdmin, nil
}

// UpdatePassword changes the super admin's password after verifying the
// current one. The audit record carries no snapshots; passwords never enter
// the log.
func (s *SuperAdminService) UpdatePassword(id int64, currentPassword, newPassword string, ip string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidation("Current and new passwords are required")
	}

	superAdmin, err := s.Get(id)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(currentPassword, superAdmin.PasswordHash) {
		return apperrors.NewValidation("Current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.SuperAdmin{}).
			Where("id = ?", id).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionUpdate,
			EntityType:      database.EntitySuperAdmin,
			EntityID:        superAdmin.ID,
			EntityName:      displayName(superAdmin.Name, superAdmin.Email),
			PerformedByID:   superAdmin.ID,
			PerformedByType: database.ActorSuperAdmin,
			PerformedByName: superAdmin.Name,
			Description:     "Updated super admin password",
			IPAddress:       ip,
		})
		return err
	})
}

// Stats is the super-admin dashboard summary
type Stats struct {
	TotalAdmins     int64               `json:"totalAdmins"`
	TotalEmployees  int64               `json:"totalEmployees"`
	TodayActivity   int64               `json:"todayActivity"`
	ActionBreakdown []audit.ActionCount `json:"actionBreakdown"`
}

// CollectStats gathers dashboard counts from the other services
func CollectStats(admins *AdminService, employees *EmployeeService, logs *audit.Repository) (*Stats, error) {
	totalAdmins, err := admins.Count()
	if err != nil {
		return nil, err
	}
	totalEmployees, err := employees.Count()
	if err != nil {
		return nil, err
	}
	todayActivity, err := logs.TodayCount()
	if err != nil {
		return nil, err
	}
	breakdown, err := logs.ActionBreakdownSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalAdmins:     totalAdmins,
		TotalEmployees:  totalEmployees,
		TodayActivity:   todayActivity,
		ActionBreakdown: breakdown,
	}, nil
}
