// Package audit implements the append-only change log: writing records,
// filtered queries, human-readable change summaries and CSV/PDF reports.
package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldtrack/database"
)

// Snapshot is a field-to-value mapping capturing entity state at one instant
type Snapshot map[string]interface{}

// Entry describes one action to be recorded
type Entry struct {
	ActionType      string
	EntityType      string
	EntityID        int64
	EntityName      string
	PerformedByID   int64
	PerformedByType string
	PerformedByName string
	OldValues       Snapshot
	NewValues       Snapshot
	Description     string
	IPAddress       string
}

// Recorder appends audit records. It never updates existing rows.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder returns a Recorder writing through db
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// WithTx returns a Recorder that writes through tx, so a caller can commit
// an entity mutation and its audit record atomically.
func (r *Recorder) WithTx(tx *gorm.DB) *Recorder {
	return &Recorder{db: tx}
}

// Record persists one immutable audit record and returns its id. Snapshots
// are serialized at write time; the stored record holds copies, never live
// references to the mutated entity.
func (r *Recorder) Record(entry Entry) (int64, error) {
	oldJSON, err := marshalSnapshot(entry.OldValues)
	if err != nil {
		return 0, fmt.Errorf("serialize old values: %w", err)
	}
	newJSON, err := marshalSnapshot(entry.NewValues)
	if err != nil {
		return 0, fmt.Errorf("serialize new values: %w", err)
	}

	record := database.AuditLog{
		ActionType:      entry.ActionType,
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		EntityName:      entry.EntityName,
		PerformedByID:   entry.PerformedByID,
		PerformedByType: entry.PerformedByType,
		PerformedByName: entry.PerformedByName,
		OldValues:       oldJSON,
		NewValues:       newJSON,
		Description:     entry.Description,
		IPAddress:       entry.IPAddress,
	}
	if err := r.db.Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func marshalSnapshot(s Snapshot) (datatypes.JSON, error) {
	if s == nil {
		return nil, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeSnapshot decodes a stored snapshot column. A missing column decodes
// to nil; malformed JSON decodes to an empty snapshot instead of failing the
// read, so one corrupt row never breaks a whole query.
func DecodeSnapshot(raw datatypes.JSON) Snapshot {
	if len(raw) == 0 {
		return nil
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Snapshot{}
	}
	if s == nil {
		return Snapshot{}
	}
	return s
}
