package storage

import "time"

// Submission is one relayed attendance record kept in the local log.
type Submission struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Subdivision    string    `db:"subdivision"`
	AttendanceType string    `db:"attendance_type"`
	PhotoURL       string    `db:"photo_url"`
	Location       string    `db:"location"`
	DeviceInfo     string    `db:"device_info"`
	RecordedAt     string    `db:"recorded_at"` // IST wall-clock text, as relayed
	CreatedAt      time.Time `db:"created_at"`
}

// CachedAsset is one asset inside a cache generation.
type CachedAsset struct {
	Version     string `db:"version"`
	Path        string `db:"path"`
	ContentType string `db:"content_type"`
	Content     []byte `db:"content"`
}
