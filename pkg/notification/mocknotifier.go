package notification

import "sync"

// MockNotifier records sent notifications for tests
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentNotification
}

// SentNotification is a notification captured by MockNotifier
type SentNotification struct {
	Type NoticeType
	Data NotificationData
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send records the notification
func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentNotification{Type: noticeType, Data: notification})
	return nil
}

// Sent returns a copy of the recorded notifications
func (m *MockNotifier) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentNotification, len(m.sent))
	copy(out, m.sent)
	return out
}
