package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldtrack/services"
)

// EmployeeController handles employee CRUD and balance mutations
type EmployeeController struct {
	employees *services.EmployeeService
}

// NewEmployeeController returns an EmployeeController
func NewEmployeeController(employees *services.EmployeeService) *EmployeeController {
	return &EmployeeController{employees: employees}
}

// actorFields carries the in-band admin identity mutations are attributed
// to. When absent, the mutation proceeds without an audit record.
type actorFields struct {
	AdminID   int64  `json:"admin_id"`
	AdminName string `json:"admin_name"`
	AdminType string `json:"admin_type"`
}

func (f actorFields) actor() *services.Actor {
	if f.AdminID == 0 || f.AdminName == "" {
		return nil
	}
	actorType := f.AdminType
	if actorType == "" {
		actorType = "ADMIN"
	}
	return &services.Actor{ID: f.AdminID, Name: f.AdminName, Type: actorType}
}

// CreateEmployeeRequest is the body of POST /employees
type CreateEmployeeRequest struct {
	Name           string `json:"name" binding:"required"`
	EmployeeNumber string `json:"employee_number"`
	TotalDays      *int   `json:"total_days"`
	UsedDays       *int   `json:"used_days"`
	actorFields
}

// UpdateEmployeeRequest is the body of PUT /employees/:id. Action selects
// between a balance operation (add/subtract/set with Days) and a full edit
// (update with the remaining fields).
type UpdateEmployeeRequest struct {
	Action         string `json:"action" binding:"required"`
	Days           *int   `json:"days"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employee_number"`
	TotalDays      *int   `json:"total_days"`
	UsedDays       *int   `json:"used_days"`
	actorFields
}

// BulkImportRequest is the body of POST /employees/bulk
type BulkImportRequest struct {
	Employees []struct {
		Name           string `json:"name"`
		EmployeeNumber string `json:"employee_number"`
		TotalDays      *int   `json:"total_days"`
		UsedDays       *int   `json:"used_days"`
	} `json:"employees" binding:"required"`
}

// List returns all employees with derived remaining days
func (ctrl *EmployeeController) List(c *gin.Context) {
	employees, err := ctrl.employees.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Get returns a single employee
func (ctrl *EmployeeController) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	employee, err := ctrl.employees.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Create adds a single employee
func (ctrl *EmployeeController) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	employee, err := ctrl.employees.Create(services.CreateEmployeeInput{
		Name:           req.Name,
		EmployeeNumber: req.EmployeeNumber,
		TotalDays:      req.TotalDays,
		UsedDays:       req.UsedDays,
	}, req.actor(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// Update mutates a balance (add/subtract/set) or applies a full edit
func (ctrl *EmployeeController) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if req.Action == "update" {
		if req.TotalDays == nil || req.UsedDays == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "total_days and used_days are required"})
			return
		}
		employee, err := ctrl.employees.Update(id, services.UpdateEmployeeInput{
			Name:           req.Name,
			EmployeeNumber: req.EmployeeNumber,
			TotalDays:      *req.TotalDays,
			UsedDays:       *req.UsedDays,
		}, req.actor(), c.ClientIP())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, employee)
		return
	}

	if req.Days == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Days value is required"})
		return
	}

	employee, err := ctrl.employees.AdjustDays(id, req.Action, *req.Days, req.actor(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Delete removes an employee. The acting identity arrives as query
// parameters since DELETE carries no body.
func (ctrl *EmployeeController) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	adminID, _ := strconv.ParseInt(c.Query("admin_id"), 10, 64)
	fields := actorFields{
		AdminID:   adminID,
		AdminName: c.Query("admin_name"),
		AdminType: c.Query("admin_type"),
	}

	if err := ctrl.employees.Delete(id, fields.actor(), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Employee deleted successfully"})
}

// BulkImport replaces the whole employee table with the supplied rows
func (ctrl *EmployeeController) BulkImport(c *gin.Context) {
	var req BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid employees data"})
		return
	}

	inputs := make([]services.CreateEmployeeInput, 0, len(req.Employees))
	for _, row := range req.Employees {
		inputs = append(inputs, services.CreateEmployeeInput{
			Name:           row.Name,
			EmployeeNumber: row.EmployeeNumber,
			TotalDays:      row.TotalDays,
			UsedDays:       row.UsedDays,
		})
	}

	employees, err := ctrl.employees.BulkReplace(inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Reset zeroes every employee's used day count
func (ctrl *EmployeeController) Reset(c *gin.Context) {
	employees, err := ctrl.employees.ResetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}
