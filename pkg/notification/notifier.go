package notification

// NoticeType identifies a kind of notification (e.g., a security notice)
type NoticeType string

const (
	// NewDeviceRememberedNotice is sent when a new device is remembered for
	// second-factor bypass
	NewDeviceRememberedNotice NoticeType = "new_device_remembered"
)

// NotificationData carries the recipient and template data for a notice
type NotificationData struct {
	To      string            // Recipient identifier (e.g., email address)
	Subject string            // Optional: overrides the template subject
	Data    map[string]string // Template data
}

// Notifier delivers a notification of the given type
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData) error
}
