package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldtrack/database"
)

func TestSummarizeDeleteAndCreate(t *testing.T) {
	deleted := database.AuditLog{ActionType: database.ActionDelete}
	assert.Equal(t, []string{"Deleted"}, Summarize(deleted))

	created := database.AuditLog{
		ActionType: database.ActionCreate,
		NewValues:  mustJSON(t, map[string]interface{}{"name": "Dana Reyes"}),
	}
	assert.Equal(t, []string{"Created"}, Summarize(created))
}

func TestSummarizeUsedDaysChange(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionSetDays,
		OldValues:  mustJSON(t, map[string]interface{}{"used_days": 10, "total_days": 150}),
		NewValues:  mustJSON(t, map[string]interface{}{"used_days": 25, "total_days": 150}),
	}
	changes := Summarize(record)
	assert.Equal(t, []string{"Field work days: 10 to 25 (Increased by 15 days)"}, changes)
}

func TestSummarizeSingleDayDelta(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionSubtractDays,
		OldValues:  mustJSON(t, map[string]interface{}{"used_days": 5}),
		NewValues:  mustJSON(t, map[string]interface{}{"used_days": 4}),
	}
	assert.Equal(t, []string{"Field work days: 5 to 4 (Decreased by 1 day)"}, Summarize(record))
}

func TestSummarizeTotalDaysChange(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionUpdate,
		OldValues:  mustJSON(t, map[string]interface{}{"total_days": 150}),
		NewValues:  mustJSON(t, map[string]interface{}{"total_days": 120}),
	}
	assert.Equal(t, []string{"Total field work balance: 150 to 120 (Decreased by 30 days)"}, Summarize(record))
}

func TestSummarizeStatusAndAccountState(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionUpdate,
		OldValues:  mustJSON(t, map[string]interface{}{"status": "approved", "is_active": true}),
		NewValues:  mustJSON(t, map[string]interface{}{"status": "pending", "is_active": false}),
	}
	changes := Summarize(record)
	assert.Contains(t, changes, "Status: Approved to Pending")
	assert.Contains(t, changes, "Account status: Active to Inactive")
}

func TestSummarizeTextFields(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionUpdate,
		OldValues: mustJSON(t, map[string]interface{}{
			"name":            "Dana Reyes",
			"employee_number": "EMP-104",
			"email":           nil,
		}),
		NewValues: mustJSON(t, map[string]interface{}{
			"name":            "Dana Ortiz",
			"employee_number": "EMP-210",
			"email":           "dana@example.com",
		}),
	}
	changes := Summarize(record)
	assert.Contains(t, changes, "Employee #: EMP-104 to EMP-210")
	assert.Contains(t, changes, "Name: Dana Reyes to Dana Ortiz")
	assert.Contains(t, changes, "Email: None to dana@example.com")
}

func TestSummarizeGenericFallback(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionUpdate,
		OldValues:  mustJSON(t, map[string]interface{}{"pay_grade": "G5"}),
		NewValues:  mustJSON(t, map[string]interface{}{"pay_grade": "G6"}),
	}
	assert.Equal(t, []string{"Pay Grade: G5 to G6"}, Summarize(record))
}

func TestSummarizeIdenticalSnapshots(t *testing.T) {
	snapshot := map[string]interface{}{"name": "Dana Reyes", "used_days": 3}
	record := database.AuditLog{
		ActionType: database.ActionUpdate,
		OldValues:  mustJSON(t, snapshot),
		NewValues:  mustJSON(t, snapshot),
	}
	assert.Equal(t, []string{"No changes detected"}, Summarize(record))
}

func TestSummarizeMissingSnapshots(t *testing.T) {
	withDescription := database.AuditLog{
		ActionType:  database.ActionUpdate,
		Description: "Updated employee: Dana Reyes",
	}
	assert.Equal(t, []string{"Updated employee: Dana Reyes"}, Summarize(withDescription))

	bare := database.AuditLog{ActionType: database.ActionUpdate}
	assert.Equal(t, []string{"No changes recorded"}, Summarize(bare))
}

func TestSummarizeCorruptSnapshots(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionUpdate,
		OldValues:  []byte("{not json"),
		NewValues:  []byte("{not json"),
	}
	assert.Equal(t, []string{"No changes detected"}, Summarize(record))
}

func TestSummarizeNumericStrings(t *testing.T) {
	record := database.AuditLog{
		ActionType: database.ActionAddDays,
		OldValues:  mustJSON(t, map[string]interface{}{"used_days": "8"}),
		NewValues:  mustJSON(t, map[string]interface{}{"used_days": "12"}),
	}
	assert.Equal(t, []string{"Field work days: 8 to 12 (Increased by 4 days)"}, Summarize(record))
}
