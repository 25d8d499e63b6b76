package domain

import "time"

// User is a marketplace participant identified by their Telegram account.
type User struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Name       string    `json:"name"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SellerInfo is the seller summary denormalized onto each listing so the
// storefront can render cards without joining users.
type SellerInfo struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// Listing is a game account offered for sale.
type Listing struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Game        string     `json:"game"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	ImageURL    string     `json:"image_url,omitempty"`
	Seller      SellerInfo `json:"seller"`
	Available   bool       `json:"available"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type DealStatus string

const (
	DealStatusPending   DealStatus = "pending"
	DealStatusCompleted DealStatus = "completed"
	DealStatusCancelled DealStatus = "cancelled"
)

// Valid reports whether s is one of the three known statuses.
func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusPending, DealStatusCompleted, DealStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s DealStatus) Terminal() bool {
	return s == DealStatusCompleted || s == DealStatusCancelled
}

// Deal links a buyer, a seller and a listing. Participants and the listing
// reference are fixed at creation; status is the only mutable field.
type Deal struct {
	ID        string     `json:"id"`
	SellerID  string     `json:"seller_id"`
	BuyerID   string     `json:"buyer_id"`
	ListingID string     `json:"account_id"`
	Status    DealStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Review is buyer feedback tied 1:1 to a completed deal.
type Review struct {
	ID        string    `json:"id"`
	DealID    string    `json:"deal_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
