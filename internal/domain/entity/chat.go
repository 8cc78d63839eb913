package entity

import "time"

// AdminParticipant is the literal second participant of every support channel.
const AdminParticipant = "admin"

// AdminSenderName is shown to users on every admin reply.
const AdminSenderName = "Admin"

const MaxChatMessageLength = 1000

type ChatMessage struct {
	ID           string    `json:"id" firestore:"id"`
	UserID       string    `json:"user_id" firestore:"userId"`
	Participants []string  `json:"participants" firestore:"participants"`
	Message      string    `json:"message" firestore:"message"`
	SenderID     string    `json:"sender_id" firestore:"senderId"`
	SenderName   string    `json:"sender_name" firestore:"senderName"`
	SenderAvatar string    `json:"sender_avatar,omitempty" firestore:"senderAvatar"`
	IsFromAdmin  bool      `json:"is_from_admin" firestore:"isFromAdmin"`
	Read         bool      `json:"read" firestore:"read"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

// ChannelParticipants returns the participant pair keying a user's support channel.
func ChannelParticipants(userID string) []string {
	return []string{userID, AdminParticipant}
}

// Conversation summarises one user's channel for the admin inbox.
type Conversation struct {
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar,omitempty"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}
