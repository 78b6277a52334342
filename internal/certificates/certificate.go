package certificates

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateAsset is returned when creating a certificate whose asset
	// id already exists anywhere in the store.
	ErrDuplicateAsset = errors.New("asset id already exists")
	// ErrNotFound is returned for unknown or unowned certificates.
	ErrNotFound = errors.New("certificate not found")
)

// StatusValid is the default status label for new certificates. The label
// is stored as entered and never recomputed from the expiry date.
const StatusValid = "Valid"

// Certificate is one equipment inspection record. Inspection and expiry
// dates are kept as YYYY-MM-DD strings exactly as supplied.
type Certificate struct {
	ID             string    `bson:"_id,omitempty" json:"-"`
	AssetID        string    `bson:"assetId" json:"id"`
	FormType       string    `bson:"formType" json:"form_type"`
	Equipment      string    `bson:"equipment" json:"type"`
	Site           string    `bson:"site" json:"site"`
	InspectionDate string    `bson:"inspectionDate" json:"inspection_date"`
	ExpiryDate     string    `bson:"expiryDate" json:"expiry"`
	Status         string    `bson:"status" json:"status"`
	DocumentKey    string    `bson:"documentKey,omitempty" json:"document,omitempty"`
	OwnerID        string    `bson:"ownerId" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"-"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"-"`
}
