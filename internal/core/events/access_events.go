package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRoleCreated             = "role.created"
	EventTypeRoleUpdated             = "role.updated"
	EventTypeRoleDeleted             = "role.deleted"
	EventTypeRolePermissionsReplaced = "role.permissions_replaced"
	EventTypeUserCreated             = "user.created"
	EventTypeUserRolesAssigned       = "user.roles_assigned"
	EventTypeUserStatusChanged       = "user.status_changed"
	EventTypeOrganizationCreated     = "organization.created"
)

// AuditEventTypes lists every event the audit trail records.
var AuditEventTypes = []string{
	EventTypeRoleCreated,
	EventTypeRoleUpdated,
	EventTypeRoleDeleted,
	EventTypeRolePermissionsReplaced,
	EventTypeUserCreated,
	EventTypeUserRolesAssigned,
	EventTypeUserStatusChanged,
	EventTypeOrganizationCreated,
}

// AuditEvent records an administrative change after it committed.
type AuditEvent struct {
	BaseEvent
	ActorID    int64  `json:"actor_id"`
	OrgID      int64  `json:"org_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
}

func newAuditEvent(eventType string, actorID, orgID int64, targetType string, targetID int64, data map[string]interface{}) *AuditEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["actor_id"] = actorID
	data["org_id"] = orgID
	data[targetType+"_id"] = targetID

	return &AuditEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		ActorID:    actorID,
		OrgID:      orgID,
		TargetType: targetType,
		TargetID:   targetID,
	}
}

func NewRoleCreatedEvent(actorID, orgID, roleID int64, name string, permissions []string) *AuditEvent {
	return newAuditEvent(EventTypeRoleCreated, actorID, orgID, "role", roleID, map[string]interface{}{
		"name":        name,
		"permissions": permissions,
	})
}

func NewRoleUpdatedEvent(actorID, orgID, roleID int64, name string) *AuditEvent {
	return newAuditEvent(EventTypeRoleUpdated, actorID, orgID, "role", roleID, map[string]interface{}{
		"name": name,
	})
}

func NewRoleDeletedEvent(actorID, orgID, roleID int64) *AuditEvent {
	return newAuditEvent(EventTypeRoleDeleted, actorID, orgID, "role", roleID, nil)
}

func NewRolePermissionsReplacedEvent(actorID, orgID, roleID int64, permissions []string) *AuditEvent {
	return newAuditEvent(EventTypeRolePermissionsReplaced, actorID, orgID, "role", roleID, map[string]interface{}{
		"permissions": permissions,
	})
}

func NewUserCreatedEvent(actorID, orgID, userID int64, email string, roleIDs []int64) *AuditEvent {
	return newAuditEvent(EventTypeUserCreated, actorID, orgID, "user", userID, map[string]interface{}{
		"email":    email,
		"role_ids": roleIDs,
	})
}

func NewUserRolesAssignedEvent(actorID, orgID, userID int64, roleIDs []int64) *AuditEvent {
	return newAuditEvent(EventTypeUserRolesAssigned, actorID, orgID, "user", userID, map[string]interface{}{
		"role_ids": roleIDs,
	})
}

func NewUserStatusChangedEvent(actorID, orgID, userID int64, status string) *AuditEvent {
	return newAuditEvent(EventTypeUserStatusChanged, actorID, orgID, "user", userID, map[string]interface{}{
		"status": status,
	})
}

func NewOrganizationCreatedEvent(actorID, orgID int64, name string) *AuditEvent {
	return newAuditEvent(EventTypeOrganizationCreated, actorID, orgID, "organization", orgID, map[string]interface{}{
		"name": name,
	})
}
