package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListingTitle(t *testing.T) {
	assert.Equal(t, "Diamond 45 Skins", ListingTitle("diamond", 45))
	assert.Equal(t, "Radiant 0 Skins", ListingTitle("radiant", 0))
}

func TestListingModerationTransitions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    string
		action  func(l *Listing) error
		want    string
		wantErr bool
	}{
		{"approve pending", ListingStatusPending, func(l *Listing) error { return l.Approve(now) }, ListingStatusApproved, false},
		{"reject pending", ListingStatusPending, func(l *Listing) error { return l.Reject("blurry", now) }, ListingStatusRejected, false},
		{"approve approved", ListingStatusApproved, func(l *Listing) error { return l.Approve(now) }, ListingStatusApproved, true},
		{"approve rejected", ListingStatusRejected, func(l *Listing) error { return l.Approve(now) }, ListingStatusRejected, true},
		{"reject sold", ListingStatusSold, func(l *Listing) error { return l.Reject("", now) }, ListingStatusSold, true},
		{"sell approved", ListingStatusApproved, func(l *Listing) error { return l.MarkSold("buyer", now) }, ListingStatusSold, false},
		{"sell pending", ListingStatusPending, func(l *Listing) error { return l.MarkSold("buyer", now) }, ListingStatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Listing{Status: tt.from}
			err := tt.action(l)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, l.Status)
		})
	}
}

func TestRejectRecordsReason(t *testing.T) {
	now := time.Now()
	l := &Listing{Status: ListingStatusPending}

	assert.NoError(t, l.Reject("price too high", now))
	assert.Equal(t, "price too high", l.RejectReason)
	assert.Equal(t, now, *l.RejectedAt)
}

func TestRedactedDropsContact(t *testing.T) {
	l := &Listing{ID: "l1", Contact: &Contact{Discord: "seller#1"}}

	r := l.Redacted()
	assert.Nil(t, r.Contact)
	assert.NotNil(t, l.Contact)
}

func TestMatches(t *testing.T) {
	l := &Listing{Title: "Immortal 120 Skins", FeaturedSkins: "Reaver Vandal, Prime Phantom"}

	assert.True(t, l.Matches(""))
	assert.True(t, l.Matches("immortal"))
	assert.True(t, l.Matches("reaver"))
	assert.False(t, l.Matches("champions"))
}
