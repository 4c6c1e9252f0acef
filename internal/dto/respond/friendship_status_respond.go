package respond

// FriendshipStatusRespond reports the viewer's relationship to another
// user: stranger, requested, received or friend.
type FriendshipStatusRespond struct {
	Status string `json:"status"`
}
