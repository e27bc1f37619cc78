package types

import "time"

// Record is one key/value row of a container
type Record struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Status is the severity of a notification
type Status string

const (
	StatusSuccess Status = "success"
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Notification is what the presentation layer receives for load and save outcomes
type Notification struct {
	Status  Status
	Message string
	Err     error
}

// SaveReport summarizes a completed save
type SaveReport struct {
	Path     string
	Records  int
	Bytes    int
	Sum      string // SHA-256 of the written bytes, hex encoded
	Duration time.Duration
}

// SaveEntry is one row of the save journal
type SaveEntry struct {
	ID            int64     `json:"id" yaml:"id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	ContainerPath string    `json:"containerPath" yaml:"containerPath"`
	RecordCount   int       `json:"recordCount" yaml:"recordCount"`
	BytesWritten  int       `json:"bytesWritten" yaml:"bytesWritten"`
	DurationMs    int64     `json:"durationMs" yaml:"durationMs"`
	Status        Status    `json:"status" yaml:"status"`
	Error         string    `json:"error,omitempty" yaml:"error,omitempty"`
}
