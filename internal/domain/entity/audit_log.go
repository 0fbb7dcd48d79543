package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditLog records an operator action taken through this client
type AuditLog struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     *uuid.UUID `gorm:"type:uuid;index" json:"session_id,omitempty"`
	ActorID       int64      `gorm:"index" json:"actor_id"`
	ActorUsername string     `gorm:"type:varchar(255)" json:"actor_username"`
	Action        string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata      JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Audit actions
const (
	AuditActionLogin         = "session.login"
	AuditActionLogout        = "session.logout"
	AuditActionRegister      = "session.register"
	AuditActionBookingSubmit = "booking.submit"
	AuditActionProfileUpdate = "profile.update"
)

// AuditActionStatus names a status transition, e.g. appointment.status.confirmed.
func AuditActionStatus(s AppointmentStatus) string {
	return "appointment.status." + strings.ToLower(string(s))
}

// AuditLogFilter narrows the audit listing. Action matches as a prefix so
// "appointment.status" selects every transition.
type AuditLogFilter struct {
	Action        string
	ActorUsername string
}
