package controllers

import (
	"fmt"
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

// AuthController handles admin authentication, password reset and the
// admin-scoped audit log views
type AuthController struct {
	admins *services.AdminService
	logs   *audit.Repository
	cfg    config.Config
}

// NewAuthController returns an AuthController
func NewAuthController(admins *services.AdminService, logs *audit.Repository, cfg config.Config) *AuthController {
	return &AuthController{admins: admins, logs: logs, cfg: cfg}
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// logView pairs a raw record with its summarized change lines
type logView struct {
	database.AuditLog
	Changes []string `json:"changes"`
}

func viewsOf(records []database.AuditLog) []logView {
	views := make([]logView, 0, len(records))
	for _, record := range records {
		views = append(views, logView{AuditLog: record, Changes: audit.Summarize(record)})
	}
	return views
}

// Login authenticates an admin and returns an admin-typed token
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	admin, err := ctrl.admins.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	expiry := time.Now().Add(ctrl.cfg.JWTExpiration())
	token, err := utils.GenerateJWT(ctrl.cfg.JWTSecret, admin.ID, utils.TokenTypeAdmin, expiry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"admin":   admin,
	})
}

// Me returns the authenticated admin
func (ctrl *AuthController) Me(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
}

// Logout exists for API symmetry; tokens are discarded client-side
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

// ChangePassword sets a new password for the authenticated admin
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	admin, _ := middleware.AdminFromContext(c)

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Current password and new password are required"})
		return
	}

	err := ctrl.admins.ChangePassword(admin.ID, req.CurrentPassword, req.NewPassword)
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

// ForgotPassword issues a reset token and mails the link
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	if err := ctrl.admins.ForgotPassword(req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email exists, a reset link has been sent",
	})
}

// VerifyResetToken checks a reset token without consuming it
func (ctrl *AuthController) VerifyResetToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Token is required"})
		return
	}

	if _, err := ctrl.admins.VerifyResetToken(req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token is valid"})
}

// ResetPassword consumes a reset token and sets the new password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Token and new password are required"})
		return
	}

	if err := ctrl.admins.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// adminAuditFilters reads the shared filter query parameters, always scoped
// to the authenticated admin's own actions
func adminAuditFilters(c *gin.Context, adminID int64) audit.Filters {
	return audit.Filters{
		PerformedByID:   adminID,
		PerformedByType: database.ActorAdmin,
		ActionType:      c.Query("actionType"),
		EntityType:      c.Query("entityType"),
		StartDate:       c.Query("startDate"),
		EndDate:         c.Query("endDate"),
	}
}

// AuditLogs returns one page of the admin's own audit trail
func (ctrl *AuthController) AuditLogs(c *gin.Context) {
	admin, _ := middleware.AdminFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	records, total, err := ctrl.logs.Search(adminAuditFilters(c, admin.ID), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    viewsOf(records),
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages(total, limit),
		},
	})
}

// AuditLogsAll returns the admin's full filtered trail without pagination
func (ctrl *AuthController) AuditLogsAll(c *gin.Context) {
	admin, _ := middleware.AdminFromContext(c)

	records, _, err := ctrl.logs.Search(adminAuditFilters(c, admin.ID), 1, exportPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    viewsOf(records),
		"count":   len(records),
	})
}

// AdminReportRequest is the body of POST /audit-logs/report
type AdminReportRequest struct {
	Format       string `json:"format"`
	ActionType   string `json:"actionType"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	EntityType   string `json:"entityType"`
	PageLogsOnly bool   `json:"pageLogsOnly"`
	LogsPerPage  int    `json:"logsPerPage"`
	CurrentPage  int    `json:"currentPage"`
}

// AuditReport exports the admin's filtered trail as CSV or PDF
func (ctrl *AuthController) AuditReport(c *gin.Context) {
	admin, _ := middleware.AdminFromContext(c)

	req := AdminReportRequest{Format: "pdf", LogsPerPage: 50, CurrentPage: 1}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	filters := audit.Filters{
		PerformedByID:   admin.ID,
		PerformedByType: database.ActorAdmin,
		ActionType:      req.ActionType,
		EntityType:      req.EntityType,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
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

	sendReport(c, req.Format, "admin-audit-logs", records, audit.ReportMeta{
		GeneratedAt: time.Now(),
		Filters: reportFilterLabels(map[string]string{
			"action_type": req.ActionType,
			"entity_type": req.EntityType,
			"start_date":  req.StartDate,
			"end_date":    req.EndDate,
			"admin":       fmt.Sprintf("%s (#%d)", admin.Name, admin.ID),
		}),
	})
}
