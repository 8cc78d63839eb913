package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
	ListingStatusSold     = "sold"

	SellTypeFull    = "full"
	SellTypePartial = "partial"
)

// ErrInvalidTransition is returned when a listing is moved out of a state that does not allow it.
var ErrInvalidTransition = errors.New("invalid listing status transition")

// Ranks in descending order.
var Ranks = []string{"radiant", "immortal", "ascendant", "diamond", "platinum", "gold", "silver", "bronze", "iron"}

func ValidRank(rank string) bool {
	for _, r := range Ranks {
		if r == rank {
			return true
		}
	}
	return false
}

func RankName(rank string) string {
	if rank == "" {
		return ""
	}
	return strings.ToUpper(rank[:1]) + rank[1:]
}

// ListingTitle builds the display title, e.g. "Diamond 45 Skins".
func ListingTitle(rank string, skins int) string {
	return fmt.Sprintf("%s %d Skins", RankName(rank), skins)
}

type Contact struct {
	Facebook string `json:"facebook,omitempty" firestore:"facebook"`
	Line     string `json:"line,omitempty" firestore:"line"`
	Discord  string `json:"discord,omitempty" firestore:"discord"`
	Phone    string `json:"phone,omitempty" firestore:"phone"`
}

func (c Contact) HasAny() bool {
	return strings.TrimSpace(c.Facebook) != "" ||
		strings.TrimSpace(c.Line) != "" ||
		strings.TrimSpace(c.Discord) != "" ||
		strings.TrimSpace(c.Phone) != ""
}

type Listing struct {
	ID            string   `json:"id" firestore:"id"`
	Title         string   `json:"title" firestore:"title"`
	Rank          string   `json:"rank" firestore:"rank"`
	Skins         int      `json:"skins" firestore:"skins"`
	Price         int64    `json:"price" firestore:"price"`
	FeaturedSkins string   `json:"featured_skins,omitempty" firestore:"featuredSkins"`
	Highlights    string   `json:"highlights,omitempty" firestore:"highlights"`
	SellType      string   `json:"sell_type" firestore:"sellType"`
	Image         string   `json:"image,omitempty" firestore:"image"`
	Images        []string `json:"images,omitempty" firestore:"images"`
	Contact       *Contact `json:"contact,omitempty" firestore:"contact"`

	SellerID   string `json:"seller_id" firestore:"sellerId"`
	SellerName string `json:"seller_name" firestore:"sellerName"`
	BuyerID    string `json:"buyer_id,omitempty" firestore:"buyerId,omitempty"`

	Status       string `json:"status" firestore:"status"`
	RejectReason string `json:"reject_reason,omitempty" firestore:"rejectReason,omitempty"`

	CreatedAt  time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time  `json:"updated_at" firestore:"updatedAt"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" firestore:"approvedAt,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty" firestore:"rejectedAt,omitempty"`
	SoldAt     *time.Time `json:"sold_at,omitempty" firestore:"soldAt,omitempty"`
}

func (l *Listing) Approve(now time.Time) error {
	if l.Status != ListingStatusPending {
		return ErrInvalidTransition
	}
	l.Status = ListingStatusApproved
	l.RejectReason = ""
	l.ApprovedAt = &now
	l.UpdatedAt = now
	return nil
}

func (l *Listing) Reject(reason string, now time.Time) error {
	if l.Status != ListingStatusPending {
		return ErrInvalidTransition
	}
	l.Status = ListingStatusRejected
	l.RejectReason = reason
	l.RejectedAt = &now
	l.UpdatedAt = now
	return nil
}

// MarkSold is the sale transition and is only valid from approved.
func (l *Listing) MarkSold(buyerID string, now time.Time) error {
	if l.Status != ListingStatusApproved {
		return ErrInvalidTransition
	}
	l.Status = ListingStatusSold
	l.BuyerID = buyerID
	l.SoldAt = &now
	l.UpdatedAt = now
	return nil
}

// Public reports whether anyone may view the listing.
func (l *Listing) Public() bool {
	return l.Status == ListingStatusApproved || l.Status == ListingStatusSold
}

// Redacted returns a copy without contact details.
func (l *Listing) Redacted() *Listing {
	cp := *l
	cp.Contact = nil
	return &cp
}

// Matches reports whether the listing passes a free-text search on title and featured skins.
func (l *Listing) Matches(search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.FeaturedSkins), q)
}
