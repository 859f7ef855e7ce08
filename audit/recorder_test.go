package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fieldtrack/database"
)

func TestRecorderRoundTrip(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)

	id, err := recorder.Record(Entry{
		ActionType:      database.ActionAddDays,
		EntityType:      database.EntityEmployee,
		EntityID:        7,
		EntityName:      "Dana Reyes",
		PerformedByID:   3,
		PerformedByType: database.ActorAdmin,
		PerformedByName: "Mara Voss",
		OldValues:       Snapshot{"used_days": 2},
		NewValues:       Snapshot{"used_days": 5},
		Description:     "Added 3 days to Dana Reyes",
		IPAddress:       "10.0.0.7",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	var stored database.AuditLog
	require.NoError(t, db.First(&stored, id).Error)

	assert.Equal(t, database.ActionAddDays, stored.ActionType)
	assert.Equal(t, "Mara Voss", stored.PerformedByName)
	assert.Equal(t, Snapshot{"used_days": float64(2)}, DecodeSnapshot(stored.OldValues))
	assert.Equal(t, Snapshot{"used_days": float64(5)}, DecodeSnapshot(stored.NewValues))
}

func TestRecorderStoresCopies(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)

	snapshot := Snapshot{"used_days": 10}
	id, err := recorder.Record(Entry{
		ActionType: database.ActionUpdate,
		EntityType: database.EntityEmployee,
		EntityID:   1,
		NewValues:  snapshot,
	})
	require.NoError(t, err)

	// mutating the caller's map after the write must not alter the record
	snapshot["used_days"] = 99

	var stored database.AuditLog
	require.NoError(t, db.First(&stored, id).Error)
	assert.Equal(t, Snapshot{"used_days": float64(10)}, DecodeSnapshot(stored.NewValues))
}

func TestRecorderNilSnapshots(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)

	id, err := recorder.Record(Entry{
		ActionType: database.ActionDelete,
		EntityType: database.EntityEmployee,
		EntityID:   4,
	})
	require.NoError(t, err)

	var stored database.AuditLog
	require.NoError(t, db.First(&stored, id).Error)
	assert.Nil(t, DecodeSnapshot(stored.OldValues))
	assert.Nil(t, DecodeSnapshot(stored.NewValues))
}

func TestRecorderWithTxRollback(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := recorder.WithTx(tx).Record(Entry{
			ActionType: database.ActionCreate,
			EntityType: database.EntityEmployee,
			EntityID:   9,
		})
		require.NoError(t, err)
		return assert.AnError
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&database.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDecodeSnapshot(t *testing.T) {
	assert.Nil(t, DecodeSnapshot(nil))

	corrupt := DecodeSnapshot([]byte("{broken"))
	assert.NotNil(t, corrupt)
	assert.Empty(t, corrupt)

	null := DecodeSnapshot([]byte("null"))
	assert.NotNil(t, null)
	assert.Empty(t, null)

	decoded := DecodeSnapshot([]byte(`{"name":"Dana"}`))
	assert.Equal(t, Snapshot{"name": "Dana"}, decoded)
}
