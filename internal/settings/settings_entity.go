package settings

import "time"

type WebsocketSettings struct {
	Enabled          bool `bson:"enabled" json:"enabled"`
	HeartbeatSeconds int  `bson:"heartbeatSeconds" json:"heartbeat_seconds"`
}

type NotificationSettings struct {
	EmailEnabled    bool `bson:"emailEnabled" json:"email_enabled"`
	RealtimeEnabled bool `bson:"realtimeEnabled" json:"realtime_enabled"`
}

type WorkflowSettings struct {
	AutoAssignSops            bool `bson:"autoAssignSops" json:"auto_assign_sops"`
	RequireTrainingCompletion bool `bson:"requireTrainingCompletion" json:"require_training_completion"`
}

type EmployeeSettings struct {
	DefaultRole       string `bson:"defaultRole" json:"default_role"`
	AllowSelfComplete bool   `bson:"allowSelfComplete" json:"allow_self_complete"`
}

// Settings is the per-tenant singleton. OwnerID doubles as the document id.
type Settings struct {
	OwnerID       string               `bson:"_id" json:"-"`
	Websocket     WebsocketSettings    `bson:"websocket" json:"websocket"`
	Notifications NotificationSettings `bson:"notifications" json:"notifications"`
	Workflows     WorkflowSettings     `bson:"workflows" json:"workflows"`
	Employees     EmployeeSettings     `bson:"employees" json:"employees"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updated_at"`
}

// Defaults returns the settings a tenant starts with on first access.
func Defaults(ownerID string) Settings {
	return Settings{
		OwnerID: ownerID,
		Websocket: WebsocketSettings{
			Enabled:          true,
			HeartbeatSeconds: 30,
		},
		Notifications: NotificationSettings{
			EmailEnabled:    true,
			RealtimeEnabled: true,
		},
		Workflows: WorkflowSettings{
			AutoAssignSops:            false,
			RequireTrainingCompletion: false,
		},
		Employees: EmployeeSettings{
			DefaultRole:       "staff",
			AllowSelfComplete: true,
		},
		UpdatedAt: time.Now().UTC(),
	}
}
