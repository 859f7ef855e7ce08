package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldtrack/apperrors"
	"fieldtrack/audit"
	"fieldtrack/config"
	"fieldtrack/database"
	"fieldtrack/middleware"
	"fieldtrack/services"
	"fieldtrack/utils"
)

// SuperAdminController handles the super-admin tier: login, profile, admin
// account management, audit trail review and report export
type SuperAdminController struct {
	superAdmins *services.SuperAdminService
	admins      *services.AdminService
	employees   *services.EmployeeService
	logs        *audit.Repository
	cfg         config.Config
}

// NewSuperAdminController returns a SuperAdminController
func NewSuperAdminController(
	superAdmins *services.SuperAdminService,
	admins *services.AdminService,
	employees *services.EmployeeService,
	logs *audit.Repository,
	cfg config.Config,
) *SuperAdminController {
	return &SuperAdminController{
		superAdmins: superAdmins,
		admins:      admins,
		employees:   employees,
		logs:        logs,
		cfg:         cfg,
	}
}

// Login authenticates a super admin and returns a super-admin-typed token
func (ctrl *SuperAdminController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	superAdmin, err := ctrl.superAdmins.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	expiry := time.Now().Add(ctrl.cfg.JWTExpiration())
	token, err := utils.GenerateJWT(ctrl.cfg.JWTSecret, superAdmin.ID, utils.TokenTypeSuperAdmin, expiry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Login successful",
		"token":      token,
		"superAdmin": superAdmin,
	})
}

// Me returns the authenticated super admin
func (ctrl *SuperAdminController) Me(c *gin.Context) {
	superAdmin, _ := middleware.SuperAdminFromContext(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "superAdmin": superAdmin})
}

// UpdateMe edits the super admin's own profile
func (ctrl *SuperAdminController) UpdateMe(c *gin.Context) {
	superAdmin, _ := middleware.SuperAdminFromContext(c)

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	updated, err := ctrl.superAdmins.UpdateProfile(superAdmin.ID, req.Name, req.Email, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "superAdmin": updated})
}

// UpdatePassword changes the super admin's password
func (ctrl *SuperAdminController) UpdatePassword(c *gin.Context) {
	superAdmin, _ := middleware.SuperAdminFromContext(c)

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := ctrl.superAdmins.UpdatePassword(superAdmin.ID, req.CurrentPassword, req.NewPassword, c.ClientIP())
	if err != nil {
		if apperrors.IsValidation(err) && err.Error() == "Current password is incorrect" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

func (ctrl *SuperAdminController) superActor(c *gin.Context) services.Actor {
	superAdmin, _ := middleware.SuperAdminFromContext(c)
	return services.Actor{ID: superAdmin.ID, Name: superAdmin.Name, Type: database.ActorSuperAdmin}
}

// ListAdmins returns all admin accounts
func (ctrl *SuperAdminController) ListAdmins(c *gin.Context) {
	admins, err := ctrl.admins.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admins": admins})
}

// GetAdmin returns one admin account
func (ctrl *SuperAdminController) GetAdmin(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	admin, err := ctrl.admins.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
}

// CreateAdmin adds a new admin account
func (ctrl *SuperAdminController) CreateAdmin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	admin, err := ctrl.admins.Create(req.Email, req.Password, req.Name, ctrl.superActor(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin created successfully",
		"admin":   admin,
	})
}

// UpdateAdmin edits an admin account
func (ctrl *SuperAdminController) UpdateAdmin(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Email    *string `json:"email"`
		Name     *string `json:"name"`
		Password *string `json:"password"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	admin, err := ctrl.admins.Update(id, services.UpdateAdminInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		IsActive: req.IsActive,
	}, ctrl.superActor(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin updated successfully",
		"admin":   admin,
	})
}

// DeleteAdmin removes an admin account
func (ctrl *SuperAdminController) DeleteAdmin(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctrl.admins.Delete(id, ctrl.superActor(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin deleted successfully"})
}

// queryFilters reads the full audit filter set from query parameters
func queryFilters(c *gin.Context) audit.Filters {
	performedByID, _ := strconv.ParseInt(c.Query("performedById"), 10, 64)
	return audit.Filters{
		EntityType:      c.Query("entityType"),
		ActionType:      c.Query("actionType"),
		EmployeeNumber:  c.Query("employeeNumber"),
		StartDate:       c.Query("startDate"),
		EndDate:         c.Query("endDate"),
		PerformedByID:   performedByID,
		PerformedByName: c.Query("performedByName"),
		AdminName:       c.Query("adminName"),
		EmployeeName:    c.Query("employeeName"),
	}
}

// AuditLogs returns one page of the filtered audit trail
func (ctrl *SuperAdminController) AuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	records, total, err := ctrl.logs.Search(queryFilters(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    viewsOf(records),
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages(total, limit),
		},
	})
}

// SimpleLogs returns the whole filtered trail for client-side pagination
func (ctrl *SuperAdminController) SimpleLogs(c *gin.Context) {
	records, _, err := ctrl.logs.Search(queryFilters(c), 1, exportPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    viewsOf(records),
		"count":   len(records),
	})
}

// RecentActivity returns the latest records for the dashboard feed
func (ctrl *SuperAdminController) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	records, err := ctrl.logs.RecentActivity(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "activity": viewsOf(records)})
}

// DeleteAuditLog removes a single audit record
func (ctrl *SuperAdminController) DeleteAuditLog(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.logs.DeleteByID(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Audit log deleted successfully"})
}

// BulkDeleteRequest is the body of DELETE /audit-logs. Exactly one of the
// three selection modes applies, checked in order: deleteAll, date range,
// explicit ids.
type BulkDeleteRequest struct {
	IDs       []int64 `json:"ids"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	DeleteAll bool    `json:"deleteAll"`
}

// DeleteAuditLogs removes audit records in bulk
func (ctrl *SuperAdminController) DeleteAuditLogs(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var deleted int64
	var err error
	switch {
	case req.DeleteAll:
		deleted, err = ctrl.logs.DeleteAll()
	case req.StartDate != "" && req.EndDate != "":
		var start, end time.Time
		start, err = time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err != nil {
			respondError(c, apperrors.NewValidation("Invalid start date, expected YYYY-MM-DD"))
			return
		}
		end, err = time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
		if err != nil {
			respondError(c, apperrors.NewValidation("Invalid end date, expected YYYY-MM-DD"))
			return
		}
		deleted, err = ctrl.logs.DeleteByDateRange(start, end.Add(24*time.Hour-time.Millisecond))
	case len(req.IDs) > 0:
		deleted, err = ctrl.logs.DeleteByIDs(req.IDs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No logs specified for deletion"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      strconv.FormatInt(deleted, 10) + " audit log(s) deleted successfully",
		"deletedCount": deleted,
	})
}

// Stats returns the dashboard summary counters
func (ctrl *SuperAdminController) Stats(c *gin.Context) {
	stats, err := services.CollectStats(ctrl.admins, ctrl.employees, ctrl.logs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// ReportRequest is the body of POST /audit-logs/report. EntityIDs scopes
// the report to a chosen set of employees.
type ReportRequest struct {
	Format         string  `json:"format"`
	EntityType     string  `json:"entityType"`
	EntityIDs      []int64 `json:"entityIds"`
	ActionType     string  `json:"actionType"`
	EmployeeNumber string  `json:"employeeNumber"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	AdminName      string  `json:"adminName"`
	EmployeeName   string  `json:"employeeName"`
	PageLogsOnly   bool    `json:"pageLogsOnly"`
	LogsPerPage    int     `json:"logsPerPage"`
	CurrentPage    int     `json:"currentPage"`
}

// AuditReport exports the filtered audit trail as CSV or PDF
func (ctrl *SuperAdminController) AuditReport(c *gin.Context) {
	req := ReportRequest{Format: "pdf", LogsPerPage: 50, CurrentPage: 1}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	filters := audit.Filters{
		EntityType:     req.EntityType,
		EntityIDs:      req.EntityIDs,
		ActionType:     req.ActionType,
		EmployeeNumber: req.EmployeeNumber,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AdminName:      req.AdminName,
		EmployeeName:   req.EmployeeName,
	}

	page, limit := 1, exportPageSize
	if req.PageLogsOnly {
		page, limit = req.CurrentPage, req.LogsPerPage
	}

	records, _, err := ctrl.logs.Search(filters, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "No audit logs found matching the specified criteria",
		})
		return
	}

	sendReport(c, req.Format, "audit-logs", records, audit.ReportMeta{
		GeneratedAt: time.Now(),
		Filters: reportFilterLabels(map[string]string{
			"entity_type": req.EntityType,
			"action_type": req.ActionType,
			"start_date":  req.StartDate,
			"end_date":    req.EndDate,
			"admin_name":  req.AdminName,
		}),
	})
}
