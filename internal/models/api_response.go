package models

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Action  string      `json:"action,omitempty"`
}

const ActionConfigureCredential = "configure_credential"

type SessionInfo struct {
	ID            string        `json:"id"`
	HasCredential bool          `json:"has_credential"`
	Settings      PhotoSettings `json:"settings"`
	Items         int           `json:"items"`
	Quota         QuotaStatus   `json:"quota"`
	BatchRunning  bool          `json:"batch_running"`
}
