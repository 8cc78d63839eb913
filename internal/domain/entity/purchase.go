package entity

import "time"

const PurchaseStatusCompleted = "completed"

type Purchase struct {
	ID            string    `json:"id" firestore:"id"`
	ListingID     string    `json:"listing_id" firestore:"listingId"`
	ListingTitle  string    `json:"listing_title" firestore:"listingTitle"`
	BuyerID       string    `json:"buyer_id" firestore:"buyerId"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	Price         int64     `json:"price" firestore:"price"`
	Insurance     int64     `json:"insurance" firestore:"insurance"`
	InsuranceDays int       `json:"insurance_days" firestore:"insuranceDays"`
	Total         int64     `json:"total" firestore:"total"`
	Status        string    `json:"status" firestore:"status"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}
