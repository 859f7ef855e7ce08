package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fieldtrack/apperrors"
	"fieldtrack/audit"
	"fieldtrack/database"
)

// Balance operations
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpSet      = "set"
)

// Actor is the admin identity a mutation is attributed to. When nil, the
// mutation is performed without an audit record.
type Actor struct {
	ID   int64
	Name string
	Type string
}

// CreateEmployeeInput describes a single employee to create
type CreateEmployeeInput struct {
	Name           string
	EmployeeNumber string
	TotalDays      *int
	UsedDays       *int
}

// UpdateEmployeeInput describes a full employee edit
type UpdateEmployeeInput struct {
	Name           string
	EmployeeNumber string
	TotalDays      int
	UsedDays       int
}

// EmployeeService owns employee CRUD and the day-balance mutator
type EmployeeService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewEmployeeService returns an EmployeeService using db for storage
func NewEmployeeService(db *gorm.DB, recorder *audit.Recorder) *EmployeeService {
	return &EmployeeService{db: db, recorder: recorder}
}

// List returns all employees ordered by name
func (s *EmployeeService) List() ([]database.Employee, error) {
	var employees []database.Employee
	err := s.db.Order("name ASC").Find(&employees).Error
	return employees, err
}

// Get returns one employee by id
func (s *EmployeeService) Get(id int64) (*database.Employee, error) {
	var employee database.Employee
	if err := s.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Employee not found")
		}
		return nil, err
	}
	return &employee, nil
}

// Count returns the number of employees
func (s *EmployeeService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&database.Employee{}).Count(&count).Error
	return count, err
}

// Create inserts a new employee and, when an actor is supplied, a paired
// audit record in the same transaction
func (s *EmployeeService) Create(input CreateEmployeeInput, actor *Actor, ip string) (*database.Employee, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidation("Employee name is required")
	}

	employee := database.Employee{
		Name:           input.Name,
		EmployeeNumber: input.EmployeeNumber,
		TotalDays:      150,
		UsedDays:       0,
	}
	if input.TotalDays != nil {
		employee.TotalDays = *input.TotalDays
	}
	if input.UsedDays != nil {
		employee.UsedDays = *input.UsedDays
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		if actor == nil {
			return nil
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionCreate,
			EntityType:      database.EntityEmployee,
			EntityID:        employee.ID,
			EntityName:      employee.Name,
			PerformedByID:   actor.ID,
			PerformedByType: actor.Type,
			PerformedByName: actor.Name,
			NewValues: audit.Snapshot{
				"name":            employee.Name,
				"employee_number": employee.EmployeeNumber,
				"total_days":      employee.TotalDays,
			},
			Description: fmt.Sprintf("Created employee: %s", employee.Name),
			IPAddress:   ip,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	employee.RemainingDays = employee.TotalDays - employee.UsedDays
	return &employee, nil
}

// AdjustDays applies one add/subtract/set operation to an employee's used
// day count. The new value may go negative; only the total-days ceiling is
// enforced. The balance write and its audit record commit atomically.
func (s *EmployeeService) AdjustDays(id int64, op string, days int, actor *Actor, ip string) (*database.Employee, error) {
	if op != OpAdd && op != OpSubtract && op != OpSet {
		return nil, apperrors.NewValidation(`Invalid action. Must be "add", "subtract", or "set"`)
	}

	var updated *database.Employee
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var employee database.Employee
		if err := tx.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Employee not found")
			}
			return err
		}

		oldSnapshot := snapshotOf(employee)

		newUsed := employee.UsedDays
		switch op {
		case OpAdd:
			newUsed += days
		case OpSubtract:
			newUsed -= days
		case OpSet:
			newUsed = days
		}

		if newUsed > employee.TotalDays {
			return apperrors.NewValidation(fmt.Sprintf(
				"Used days (%d) cannot exceed total days (%d)", newUsed, employee.TotalDays))
		}

		employee.UsedDays = newUsed
		if err := tx.Model(&employee).Update("used_days", newUsed).Error; err != nil {
			return err
		}

		if actor != nil {
			actionType, description := balanceAction(op, days, employee.Name)
			_, err := s.recorder.WithTx(tx).Record(audit.Entry{
				ActionType:      actionType,
				EntityType:      database.EntityEmployee,
				EntityID:        employee.ID,
				EntityName:      employee.Name,
				PerformedByID:   actor.ID,
				PerformedByType: actor.Type,
				PerformedByName: actor.Name,
				OldValues:       oldSnapshot,
				NewValues:       snapshotOf(employee),
				Description:     description,
				IPAddress:       ip,
			})
			if err != nil {
				return err
			}
		}

		employee.RemainingDays = employee.TotalDays - employee.UsedDays
		updated = &employee
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Update applies a full employee edit
func (s *EmployeeService) Update(id int64, input UpdateEmployeeInput, actor *Actor, ip string) (*database.Employee, error) {
	if input.UsedDays > input.TotalDays {
		return nil, apperrors.NewValidation("Used days cannot exceed total days")
	}

	var updated *database.Employee
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var employee database.Employee
		if err := tx.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Employee not found")
			}
			return err
		}

		oldSnapshot := snapshotOf(employee)

		employee.Name = input.Name
		employee.EmployeeNumber = input.EmployeeNumber
		employee.TotalDays = input.TotalDays
		employee.UsedDays = input.UsedDays
		if err := tx.Model(&employee).Updates(map[string]interface{}{
			"name":            employee.Name,
			"employee_number": employee.EmployeeNumber,
			"total_days":      employee.TotalDays,
			"used_days":       employee.UsedDays,
		}).Error; err != nil {
			return err
		}

		if actor != nil {
			_, err := s.recorder.WithTx(tx).Record(audit.Entry{
				ActionType:      database.ActionUpdate,
				EntityType:      database.EntityEmployee,
				EntityID:        employee.ID,
				EntityName:      employee.Name,
				PerformedByID:   actor.ID,
				PerformedByType: actor.Type,
				PerformedByName: actor.Name,
				OldValues:       oldSnapshot,
				NewValues:       snapshotOf(employee),
				Description:     fmt.Sprintf("Updated employee: %s", employee.Name),
				IPAddress:       ip,
			})
			if err != nil {
				return err
			}
		}

		employee.RemainingDays = employee.TotalDays - employee.UsedDays
		updated = &employee
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an employee and records the deletion with the final state
// captured as the old snapshot
func (s *EmployeeService) Delete(id int64, actor *Actor, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var employee database.Employee
		if err := tx.First(&employee, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Employee not found")
			}
			return err
		}

		if err := tx.Delete(&database.Employee{}, id).Error; err != nil {
			return err
		}

		if actor == nil {
			return nil
		}
		_, err := s.recorder.WithTx(tx).Record(audit.Entry{
			ActionType:      database.ActionDelete,
			EntityType:      database.EntityEmployee,
			EntityID:        employee.ID,
			EntityName:      employee.Name,
			PerformedByID:   actor.ID,
			PerformedByType: actor.Type,
			PerformedByName: actor.Name,
			OldValues:       snapshotOf(employee),
			Description:     fmt.Sprintf("Deleted employee: %s", employee.Name),
			IPAddress:       ip,
		})
		return err
	})
}

// BulkReplace clears the employee table and imports the given rows
func (s *EmployeeService) BulkReplace(inputs []CreateEmployeeInput) ([]database.Employee, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&database.Employee{}).Error; err != nil {
			return err
		}
		for _, input := range inputs {
			employee := database.Employee{
				Name:           input.Name,
				EmployeeNumber: input.EmployeeNumber,
				TotalDays:      150,
				UsedDays:       0,
			}
			if input.TotalDays != nil {
				employee.TotalDays = *input.TotalDays
			}
			if input.UsedDays != nil {
				employee.UsedDays = *input.UsedDays
			}
			if err := tx.Create(&employee).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.List()
}

// ResetAll zeroes every employee's used day count
func (s *EmployeeService) ResetAll() ([]database.Employee, error) {
	err := s.db.Model(&database.Employee{}).
		Where("1 = 1").
		Update("used_days", 0).Error
	if err != nil {
		return nil, err
	}
	return s.List()
}

func snapshotOf(e database.Employee) audit.Snapshot {
	return audit.Snapshot{
		"name":            e.Name,
		"employee_number": e.EmployeeNumber,
		"total_days":      e.TotalDays,
		"used_days":       e.UsedDays,
	}
}

func balanceAction(op string, days int, name string) (string, string) {
	switch op {
	case OpAdd:
		return database.ActionAddDays, fmt.Sprintf("Added %d days to %s", days, name)
	case OpSubtract:
		return database.ActionSubtractDays, fmt.Sprintf("Subtracted %d days from %s", days, name)
	}
	return database.ActionSetDays, fmt.Sprintf("Set used days to %d for %s", days, name)
}
