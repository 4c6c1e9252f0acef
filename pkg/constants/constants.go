package constants

import "time"

const (
	CHANNEL_SIZE    = 100 // per-connection send buffer
	FILE_MAX_SIZE   = 50 << 20
	DELIVER_TIMEOUT = 2 * time.Second // presence deliver deadline before degrading to no-session

	// Server -> client live events.
	EventNewNotification = "NEW_NOTIFICATION"
	EventNewMessage      = "NEW_MESSAGE"

	// Preview text for messages that carry only a file.
	AttachmentPreview = "\U0001F4CE Attachment"
	SelfPreviewPrefix = "You: "
)
