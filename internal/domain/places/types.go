package places

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("place not found")
	ErrVersionConflict   = errors.New("place was modified concurrently")
	ErrInvalidCategory   = errors.New("invalid category")
	QueryTimeoutDuration = time.Second * 5
)

// DefaultImage is used when a submission arrives without an image.
const DefaultImage = "https://via.placeholder.com/400x300?text=Place+Image"

type Category string

const (
	CategoryCafe          Category = "cafe"
	CategoryRestaurant    Category = "restaurant"
	CategoryPark          Category = "park"
	CategoryMuseum        Category = "museum"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
)

var Categories = []Category{
	CategoryCafe,
	CategoryRestaurant,
	CategoryPark,
	CategoryMuseum,
	CategoryShopping,
	CategoryEntertainment,
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if string(known) == strings.ToLower(strings.TrimSpace(c)) {
			return true
		}
	}
	return false
}

type Review struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	UserName     string     `json:"userName"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	CreatedAt    time.Time  `json:"createdAt"`
	OwnerReply   string     `json:"ownerReply,omitempty"`
	OwnerReplyAt *time.Time `json:"ownerReplyAt,omitempty"`
}

type Place struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	City          string     `json:"city"`
	Description   string     `json:"description"`
	Image         string     `json:"image"`
	Address       string     `json:"address,omitempty"`
	ContactNumber string     `json:"contactNumber,omitempty"`
	Website       string     `json:"website,omitempty"`
	OwnerID       *uuid.UUID `json:"ownerId,omitempty"`
	Owner         *Owner     `json:"owner,omitempty"`
	Reviews       []Review   `json:"reviews"`
	TotalReviews  int        `json:"totalReviews"`
	AverageRating float64    `json:"averageRating"`
	Rating        float64    `json:"rating"`
	Version       int64      `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Owner is the owning user's contact, filled only by admin listings.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *Place) OwnedBy(userID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}

// Changes is a full set of owner-editable fields.
type Changes struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
	Website       string `json:"website"`
}

// Filter narrows list and search queries. Zero values mean no filter.
type Filter struct {
	City      string
	Keyword   string
	MinRating float64
	Sort      string
}

// SortColumn maps a public sort key onto a column; unknown keys sort by rating.
func SortColumn(key string) string {
	switch key {
	case "averageRating":
		return "average_rating"
	case "totalReviews":
		return "total_reviews"
	case "name":
		return "name"
	case "createdAt":
		return "created_at"
	default:
		return "rating"
	}
}

type Count struct {
	Key   string `json:"name"`
	Count int    `json:"count"`
}

type Stats struct {
	Total      int     `json:"totalPlaces"`
	ByCategory []Count `json:"placesByCategory"`
	ByCity     []Count `json:"placesByCity"`
}
