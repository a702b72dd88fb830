package models

type EnquiryStatus int

const (
	EnquiryRejected     EnquiryStatus = -1
	EnquiryPending      EnquiryStatus = 0
	EnquiryAcknowledged EnquiryStatus = 1
)

func ValidEnquiryStatus(s EnquiryStatus) bool {
	switch s {
	case EnquiryRejected, EnquiryPending, EnquiryAcknowledged:
		return true
	default:
		return false
	}
}

// EnquiryTransitionAllowed: only pending enquiries can be acknowledged or rejected.
func EnquiryTransitionAllowed(from, to EnquiryStatus) bool {
	return from == EnquiryPending && (to == EnquiryAcknowledged || to == EnquiryRejected)
}

type Product struct {
	Id          ID        `json:"id,omitempty"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	Price       Amount    `json:"price"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at,omitempty"`
}

type ProductEnquiry struct {
	Id               ID            `json:"id"`
	ProductId        ID            `json:"product"`
	ProductName      string        `json:"product_name"`
	OrganisationName string        `json:"organisation_name"`
	Message          string        `json:"message"`
	Status           EnquiryStatus `json:"int_status"`
	CreatedAt        Timestamp     `json:"created_at"`
}
