package respond

import (
	"encoding/json"
	"time"
)

// NotificationRespond is one notification row, newest first in lists.
// Id is the snowflake id as a decimal string to survive JavaScript
// number precision.
type NotificationRespond struct {
	Id        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"createdAt"`
}
