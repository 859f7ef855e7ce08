package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fieldtrack/database"
)

// Summarize renders one record as ordered human-readable change lines.
// Deletions and creations are summarized as a whole; everything else is a
// field-by-field diff of the two snapshots, with well-known keys rendered
// in admin-friendly terms and the rest falling back to a generic line.
func Summarize(record database.AuditLog) []string {
	if record.ActionType == database.ActionDelete {
		return []string{"Deleted"}
	}
	if record.ActionType == database.ActionCreate {
		return []string{"Created"}
	}

	oldValues := DecodeSnapshot(record.OldValues)
	newValues := DecodeSnapshot(record.NewValues)

	if oldValues == nil && newValues == nil {
		if record.Description != "" {
			return []string{record.Description}
		}
		return []string{"No changes recorded"}
	}
	if oldValues == nil {
		oldValues = Snapshot{}
	}
	if newValues == nil {
		newValues = Snapshot{}
	}

	changes := wellKnownChanges(oldValues, newValues)
	if len(changes) == 0 {
		changes = genericChanges(oldValues, newValues)
	}
	if len(changes) == 0 {
		return []string{"No changes detected"}
	}
	return changes
}

// wellKnownChanges handles the fixed set of keys with registered renderings,
// in a stable display order.
func wellKnownChanges(oldValues, newValues Snapshot) []string {
	var changes []string

	if oldDays, okOld := number(oldValues["used_days"]); okOld {
		if newDays, okNew := number(newValues["used_days"]); okNew && oldDays != newDays {
			changes = append(changes, fmt.Sprintf("Field work days: %s to %s (%s)",
				numString(oldDays), numString(newDays), deltaText(newDays-oldDays)))
		}
	}

	if oldTotal, okOld := number(oldValues["total_days"]); okOld {
		if newTotal, okNew := number(newValues["total_days"]); okNew && oldTotal != newTotal {
			changes = append(changes, fmt.Sprintf("Total field work balance: %s to %s (%s)",
				numString(oldTotal), numString(newTotal), deltaText(newTotal-oldTotal)))
		}
	}

	oldStatus, okOld := oldValues["status"]
	newStatus, okNew := newValues["status"]
	if okOld && okNew && !jsonEqual(oldStatus, newStatus) {
		changes = append(changes, fmt.Sprintf("Status: %s to %s",
			statusLabel(oldStatus), statusLabel(newStatus)))
	}

	oldActive, okOld := oldValues["is_active"]
	newActive, okNew := newValues["is_active"]
	if okOld && okNew && !jsonEqual(oldActive, newActive) {
		changes = append(changes, fmt.Sprintf("Account status: %s to %s",
			activeLabel(oldActive), activeLabel(newActive)))
	}

	changes = appendTextChange(changes, "Employee #", oldValues, newValues, "employee_number")
	changes = appendTextChange(changes, "Name", oldValues, newValues, "name")
	changes = appendTextChange(changes, "Email", oldValues, newValues, "email")

	return changes
}

// genericChanges diffs every remaining key pair, title-casing the key name
func genericChanges(oldValues, newValues Snapshot) []string {
	keys := map[string]bool{}
	for k := range oldValues {
		keys[k] = true
	}
	for k := range newValues {
		keys[k] = true
	}

	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	var changes []string
	for _, key := range ordered {
		oldVal, hasOld := oldValues[key]
		newVal, hasNew := newValues[key]
		if jsonEqual(oldVal, newVal) {
			continue
		}
		oldText := interpret(key, oldVal, hasOld)
		newText := interpret(key, newVal, hasNew)
		changes = append(changes, fmt.Sprintf("%s: %s to %s", titleCase(key), oldText, newText))
	}
	return changes
}

func appendTextChange(changes []string, label string, oldValues, newValues Snapshot, key string) []string {
	oldVal, hasOld := oldValues[key]
	newVal, hasNew := newValues[key]
	if !hasOld && !hasNew {
		return changes
	}
	if jsonEqual(oldVal, newVal) {
		return changes
	}
	return append(changes, fmt.Sprintf("%s: %s to %s",
		label, valueOrNone(oldVal, hasOld), valueOrNone(newVal, hasNew)))
}

func deltaText(change float64) string {
	if change > 0 {
		return fmt.Sprintf("Increased by %s", pluralDays(change))
	}
	return fmt.Sprintf("Decreased by %s", pluralDays(-change))
}

func pluralDays(n float64) string {
	if n == 1 {
		return "1 day"
	}
	return numString(n) + " days"
}

func statusLabel(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return toString(v)
	}
	switch s {
	case "approved":
		return "Approved"
	case "pending":
		return "Pending"
	case "rejected":
		return "Rejected"
	}
	return s
}

func activeLabel(v interface{}) string {
	if truthy(v) {
		return "Active"
	}
	return "Inactive"
}

// truthy treats JSON true and 1 as set; the source data mixes both forms
func truthy(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value == "1" || value == "true"
	}
	return false
}

func interpret(key string, v interface{}, present bool) string {
	if !present || v == nil {
		return "None"
	}
	switch key {
	case "is_active", "isActive":
		return activeLabel(v)
	case "status":
		return statusLabel(v)
	}
	if b, ok := v.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return toString(v)
}

func valueOrNone(v interface{}, present bool) string {
	if !present || v == nil {
		return "None"
	}
	return toString(v)
}

func toString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case string:
		return value
	case float64:
		return numString(value)
	case bool:
		return strconv.FormatBool(value)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

func numString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func number(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// jsonEqual compares two decoded values by their serialized form, so nested
// structures compare structurally rather than by reference
func jsonEqual(a, b interface{}) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(rawA) == string(rawB)
}

func titleCase(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
