package entity

import (
	"regexp"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MembershipNone = "none"
)

type Membership struct {
	Tier      string    `json:"tier" firestore:"tier"`
	ExpiresAt time.Time `json:"expires_at,omitempty" firestore:"expiresAt,omitempty"`
}

// Active reports whether a paid tier is in effect at now.
func (m Membership) Active(now time.Time) bool {
	return m.Tier != "" && m.Tier != MembershipNone && now.Before(m.ExpiresAt)
}

type UserStats struct {
	TotalSales     int     `json:"total_sales" firestore:"totalSales"`
	TotalPurchases int     `json:"total_purchases" firestore:"totalPurchases"`
	Rating         float64 `json:"rating" firestore:"rating"`
}

type User struct {
	ID            string `json:"id" firestore:"id"`
	Email         string `json:"email" firestore:"email"`
	Username      string `json:"username" firestore:"username"`
	UsernameLower string `json:"-" firestore:"usernameLower"`
	Phone         string `json:"phone,omitempty" firestore:"phone"`
	Avatar        string `json:"avatar,omitempty" firestore:"avatar"`
	Role          string `json:"role" firestore:"role"`

	Coins      int64      `json:"coins" firestore:"coins"`
	Membership Membership `json:"membership" firestore:"membership"`
	Stats      UserStats  `json:"stats" firestore:"stats"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// ValidUsername accepts 3 to 20 letters, digits or underscores.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
