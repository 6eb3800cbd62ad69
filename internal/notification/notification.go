// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/zhubert/followup/internal/logger"
)

// AppName is the title used for followup notifications.
const AppName = "followup"

var (
	mu       sync.Mutex
	notifier = beeep.Notify
)

// SetNotifier replaces the function that delivers notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores beeep as the notifier.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	mu.Lock()
	fn := notifier
	mu.Unlock()

	logger.Debug("Notification: Sending notification - title=%q, message=%q", title, message)
	// Empty icon lets beeep use the platform default
	err := fn(title, message, "")
	if err != nil {
		logger.Warn("Notification: Failed to send notification: %v", err)
	}
	return err
}

// AnswerReady announces that a streaming answer in the named transcript has
// finished and can be followed up on.
func AnswerReady(transcriptName string) error {
	if transcriptName == "" {
		return Send(AppName, "Answer ready")
	}
	return Send(AppName, transcriptName+": answer ready")
}
