package models

// TransactionStatus is the lifecycle state recorded on a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Block is one entry of the external ledger.
// Field names follow the ledger backend's JSON keys.
type Block struct {
	Index             int               `json:"Index" validate:"gte=0"`
	UserID            string            `json:"UserID"`
	Timestamp         string            `json:"Timestamp"`
	TransactionID     int               `json:"TransactionID" validate:"gte=0"`
	TransactionStatus TransactionStatus `json:"TransactionStatus"`
	Hash              string            `json:"Hash"`
	PrevHash          string            `json:"PrevHash"`
}

// TransactionMessage is the payload appended to the ledger for a payment attempt.
type TransactionMessage struct {
	UserID            string            `json:"UserID" validate:"required"`
	TransactionID     int               `json:"TransactionID" validate:"gte=0"`
	TransactionStatus TransactionStatus `json:"TransactionStatus" validate:"oneof=pending completed failed"`
}

// KYCStatus is the verification state of a user.
type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

// User is the authenticated account attached to a session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	KYCStatus KYCStatus `json:"kycStatus"`
}

// KYCData is the identity information collected by the KYC form.
type KYCData struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DateOfBirth    string `json:"dateOfBirth"`
	Address        string `json:"address"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Verified       bool   `json:"verified"`
}

// Balance is a wallet holding in a single currency.
type Balance struct {
	Currency string
	Amount   float64
}
