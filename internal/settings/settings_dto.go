package settings

// UpdateSettingsRequest patches whole groups. A nil group is left untouched;
// a present group replaces that group entirely.
type UpdateSettingsRequest struct {
	Websocket     *WebsocketSettings    `json:"websocket"`
	Notifications *NotificationSettings `json:"notifications"`
	Workflows     *WorkflowSettings     `json:"workflows"`
	Employees     *EmployeeSettings     `json:"employees"`
}

func (r UpdateSettingsRequest) Empty() bool {
	return r.Websocket == nil && r.Notifications == nil && r.Workflows == nil && r.Employees == nil
}
