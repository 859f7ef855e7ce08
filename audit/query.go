package audit

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldtrack/apperrors"
	"fieldtrack/database"
)

const dateLayout = "2006-01-02"

// Filters narrows an audit log query. All fields are optional and combined
// with AND. Date bounds are date-only and inclusive on both ends.
type Filters struct {
	EntityType      string
	EntityIDs       []int64
	ActionType      string
	EmployeeNumber  string
	StartDate       string
	EndDate         string
	PerformedByID   int64
	PerformedByType string
	PerformedByName string
	AdminName       string
	EmployeeName    string
}

// Repository queries and deletes audit records
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a Repository reading through db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Search returns one page of matching records, most recent first, together
// with the total size of the filtered set. page is 1-indexed.
func (r *Repository) Search(f Filters, page, pageSize int) ([]database.AuditLog, int64, error) {
	query, err := r.filtered(f)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var records []database.AuditLog
	err = query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindByEntity returns the full history of one entity, most recent first
func (r *Repository) FindByEntity(entityType string, entityID int64) ([]database.AuditLog, error) {
	var records []database.AuditLog
	err := r.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// RecentActivity returns the latest records regardless of filters
func (r *Repository) RecentActivity(limit int) ([]database.AuditLog, error) {
	if limit < 1 {
		limit = 10
	}
	var records []database.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

// DeleteByID removes a single record
func (r *Repository) DeleteByID(id int64) error {
	var record database.AuditLog
	if err := r.db.First(&record, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NewNotFound("Audit log not found")
		}
		return err
	}
	return r.db.Delete(&database.AuditLog{}, id).Error
}

// DeleteByIDs removes the given records and reports how many were deleted
func (r *Repository) DeleteByIDs(ids []int64) (int64, error) {
	result := r.db.Delete(&database.AuditLog{}, ids)
	return result.RowsAffected, result.Error
}

// DeleteByDateRange removes records created between the two timestamps
func (r *Repository) DeleteByDateRange(start, end time.Time) (int64, error) {
	result := r.db.
		Where("created_at BETWEEN ? AND ?", start, end).
		Delete(&database.AuditLog{})
	return result.RowsAffected, result.Error
}

// DeleteAll removes every record
func (r *Repository) DeleteAll() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&database.AuditLog{})
	return result.RowsAffected, result.Error
}

// TodayCount returns how many records were created since local midnight
func (r *Repository) TodayCount() (int64, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := r.db.Model(&database.AuditLog{}).
		Where("created_at >= ?", midnight).
		Count(&count).Error
	return count, err
}

// ActionCount is one row of the action breakdown
type ActionCount struct {
	ActionType string `json:"action_type"`
	Count      int64  `json:"count"`
}

// ActionBreakdownSince groups record counts by action type from a cutoff
func (r *Repository) ActionBreakdownSince(since time.Time) ([]ActionCount, error) {
	var rows []ActionCount
	err := r.db.Model(&database.AuditLog{}).
		Select("action_type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("action_type").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) filtered(f Filters) (*gorm.DB, error) {
	query := r.db.Model(&database.AuditLog{})

	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if len(f.EntityIDs) > 0 {
		query = query.Where("entity_id IN ?", f.EntityIDs)
	}
	if f.ActionType != "" {
		query = query.Where("action_type = ?", f.ActionType)
	}
	if f.PerformedByID != 0 {
		query = query.Where("performed_by_id = ?", f.PerformedByID)
	}
	if f.PerformedByType != "" {
		query = query.Where("performed_by_type = ?", f.PerformedByType)
	}

	// adminName takes precedence over performedByName when both are set
	if f.AdminName != "" {
		query = query.Where("performed_by_name LIKE ?", "%"+f.AdminName+"%")
	} else if f.PerformedByName != "" {
		query = query.Where("performed_by_name LIKE ?", "%"+f.PerformedByName+"%")
	}

	if f.EmployeeName != "" {
		query = query.Where("entity_name LIKE ?", "%"+f.EmployeeName+"%")
	}

	if f.StartDate != "" {
		start, err := time.ParseInLocation(dateLayout, f.StartDate, time.Local)
		if err != nil {
			return nil, apperrors.NewValidation("Invalid start date, expected YYYY-MM-DD")
		}
		query = query.Where("created_at >= ?", start)
	}
	if f.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, f.EndDate, time.Local)
		if err != nil {
			return nil, apperrors.NewValidation("Invalid end date, expected YYYY-MM-DD")
		}
		// inclusive bound, normalized to the last millisecond of the day
		endOfDay := end.Add(24*time.Hour - time.Millisecond)
		query = query.Where("created_at <= ?", endOfDay)
	}

	if f.EmployeeNumber != "" {
		pattern := "%" + f.EmployeeNumber + "%"
		query = query.Where(
			r.db.Where(datatypes.JSONQuery("new_values").Likes(pattern, "employee_number")).
				Or(datatypes.JSONQuery("old_values").Likes(pattern, "employee_number")),
		)
	}

	return query, nil
}
