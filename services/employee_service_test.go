package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldtrack/apperrors"
	"fieldtrack/audit"
	"fieldtrack/database"
)

var testActor = &Actor{ID: 3, Name: "Mara Voss", Type: database.ActorAdmin}

func intPtr(v int) *int { return &v }

func TestCreateEmployeeDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", EmployeeNumber: "EMP-104"}, testActor, "10.0.0.7")
	require.NoError(t, err)

	assert.Equal(t, 150, employee.TotalDays)
	assert.Equal(t, 0, employee.UsedDays)
	assert.Equal(t, 150, employee.RemainingDays)

	records := auditRecords(t, db)
	require.Len(t, records, 1)
	assert.Equal(t, database.ActionCreate, records[0].ActionType)
	assert.Equal(t, database.EntityEmployee, records[0].EntityType)
	assert.Equal(t, employee.ID, records[0].EntityID)
	assert.Equal(t, "Mara Voss", records[0].PerformedByName)

	snapshot := audit.DecodeSnapshot(records[0].NewValues)
	assert.Equal(t, "EMP-104", snapshot["employee_number"])
}

func TestCreateEmployeeWithoutActor(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	_, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes"}, nil, "")
	require.NoError(t, err)
	assert.Empty(t, auditRecords(t, db))
}

func TestCreateEmployeeRequiresName(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	_, err := svc.Create(CreateEmployeeInput{}, testActor, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdjustDaysSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes"}, nil, "")
	require.NoError(t, err)

	steps := []struct {
		op       string
		days     int
		expected int
		action   string
	}{
		{OpAdd, 5, 5, database.ActionAddDays},
		{OpAdd, 5, 10, database.ActionAddDays},
		{OpSubtract, 3, 7, database.ActionSubtractDays},
		{OpSet, 25, 25, database.ActionSetDays},
	}

	for _, step := range steps {
		updated, err := svc.AdjustDays(employee.ID, step.op, step.days, testActor, "10.0.0.7")
		require.NoError(t, err)
		assert.Equal(t, step.expected, updated.UsedDays)
		assert.Equal(t, 150-step.expected, updated.RemainingDays)
	}

	records := auditRecords(t, db)
	require.Len(t, records, len(steps))
	for i, step := range steps {
		assert.Equal(t, step.action, records[i].ActionType)
		newSnapshot := audit.DecodeSnapshot(records[i].NewValues)
		assert.EqualValues(t, step.expected, newSnapshot["used_days"])
	}

	// each record's old snapshot matches the previous record's new snapshot
	for i := 1; i < len(records); i++ {
		prev := audit.DecodeSnapshot(records[i-1].NewValues)
		curr := audit.DecodeSnapshot(records[i].OldValues)
		assert.Equal(t, prev["used_days"], curr["used_days"])
	}
}

func TestSetDaysSummaryReflectsBothValues(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", UsedDays: intPtr(10)}, nil, "")
	require.NoError(t, err)

	_, err = svc.AdjustDays(employee.ID, OpSet, 25, testActor, "")
	require.NoError(t, err)

	records := auditRecords(t, db)
	require.Len(t, records, 1)

	oldSnapshot := audit.DecodeSnapshot(records[0].OldValues)
	newSnapshot := audit.DecodeSnapshot(records[0].NewValues)
	assert.EqualValues(t, 10, oldSnapshot["used_days"])
	assert.EqualValues(t, 25, newSnapshot["used_days"])

	summary := strings.Join(audit.Summarize(records[0]), "; ")
	assert.Contains(t, summary, "10")
	assert.Contains(t, summary, "25")
}

func TestAdjustDaysCeiling(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", UsedDays: intPtr(10)}, nil, "")
	require.NoError(t, err)

	_, err = svc.AdjustDays(employee.ID, OpSet, 200, testActor, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "cannot exceed total days (150)")

	// the rejected mutation leaves no trace: no audit record, balance unchanged
	assert.Empty(t, auditRecords(t, db))
	reloaded, err := svc.Get(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.UsedDays)
}

func TestAdjustDaysAllowsNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", UsedDays: intPtr(2)}, nil, "")
	require.NoError(t, err)

	updated, err := svc.AdjustDays(employee.ID, OpSubtract, 5, testActor, "")
	require.NoError(t, err)
	assert.Equal(t, -3, updated.UsedDays)
	assert.Equal(t, 153, updated.RemainingDays)
}

func TestAdjustDaysRejectsUnknownOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes"}, nil, "")
	require.NoError(t, err)

	_, err = svc.AdjustDays(employee.ID, "increment", 1, testActor, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdjustDaysEmployeeNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	_, err := svc.AdjustDays(999, OpAdd, 1, testActor, "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateEmployee(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", EmployeeNumber: "EMP-104"}, nil, "")
	require.NoError(t, err)

	updated, err := svc.Update(employee.ID, UpdateEmployeeInput{
		Name:           "Dana Ortiz",
		EmployeeNumber: "EMP-210",
		TotalDays:      120,
		UsedDays:       30,
	}, testActor, "")
	require.NoError(t, err)
	assert.Equal(t, "Dana Ortiz", updated.Name)
	assert.Equal(t, 90, updated.RemainingDays)

	records := auditRecords(t, db)
	require.Len(t, records, 1)
	assert.Equal(t, database.ActionUpdate, records[0].ActionType)

	summary := strings.Join(audit.Summarize(records[0]), "; ")
	assert.Contains(t, summary, "Employee #: EMP-104 to EMP-210")
	assert.Contains(t, summary, "Name: Dana Reyes to Dana Ortiz")
}

func TestUpdateEmployeeRejectsOverCeiling(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes"}, nil, "")
	require.NoError(t, err)

	_, err = svc.Update(employee.ID, UpdateEmployeeInput{
		Name: "Dana Reyes", TotalDays: 100, UsedDays: 101,
	}, testActor, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteEmployee(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	employee, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", UsedDays: intPtr(7)}, nil, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(employee.ID, testActor, ""))

	_, err = svc.Get(employee.ID)
	assert.True(t, apperrors.IsNotFound(err))

	records := auditRecords(t, db)
	require.Len(t, records, 1)
	assert.Equal(t, database.ActionDelete, records[0].ActionType)
	oldSnapshot := audit.DecodeSnapshot(records[0].OldValues)
	assert.EqualValues(t, 7, oldSnapshot["used_days"])
}

func TestBulkReplace(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	_, err := svc.Create(CreateEmployeeInput{Name: "Old Person"}, nil, "")
	require.NoError(t, err)

	employees, err := svc.BulkReplace([]CreateEmployeeInput{
		{Name: "Ben Okafor", EmployeeNumber: "EMP-201", UsedDays: intPtr(4)},
		{Name: "Ana Petrov", EmployeeNumber: "EMP-202"},
	})
	require.NoError(t, err)
	require.Len(t, employees, 2)

	// list order is by name
	assert.Equal(t, "Ana Petrov", employees[0].Name)
	assert.Equal(t, "Ben Okafor", employees[1].Name)
	assert.Equal(t, 4, employees[1].UsedDays)
	assert.Equal(t, 146, employees[1].RemainingDays)
}

func TestResetAll(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db, audit.NewRecorder(db))

	_, err := svc.Create(CreateEmployeeInput{Name: "Dana Reyes", UsedDays: intPtr(12)}, nil, "")
	require.NoError(t, err)
	_, err = svc.Create(CreateEmployeeInput{Name: "Ben Okafor", UsedDays: intPtr(30)}, nil, "")
	require.NoError(t, err)

	employees, err := svc.ResetAll()
	require.NoError(t, err)
	for _, employee := range employees {
		assert.Zero(t, employee.UsedDays)
		assert.Equal(t, employee.TotalDays, employee.RemainingDays)
	}
}
