package certificates

import (
	"context"
	"time"
)

// Repository defines persistence operations for certificates. Owner-scoped
// methods must never observe or touch another owner's rows.
type Repository interface {
	Create(ctx context.Context, c *Certificate) error
	GetByAsset(ctx context.Context, assetID string) (*Certificate, error)
	GetOwnedByAsset(ctx context.Context, ownerID, assetID string) (*Certificate, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Certificate, error)
	ListAll(ctx context.Context) ([]*Certificate, error)
	SetDocumentKey(ctx context.Context, assetID, key string) error
	DeleteOwnedByAsset(ctx context.Context, ownerID, assetID string) error
}

// Service encapsulates certificate business logic. Every read and delete is
// scoped to the owning account; the two exceptions are the public verify
// lookup and document attachment, which key on asset id alone.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Create stores a new certificate for ownerID. Returns ErrDuplicateAsset
// when the asset id is already taken by any account.
func (s *Service) Create(ctx context.Context, ownerID string, c *Certificate) error {
	now := time.Now().UTC()
	c.OwnerID = ownerID
	if c.Status == "" {
		c.Status = StatusValid
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.repo.Create(ctx, c)
}

// ListOwned returns all certificates owned by ownerID.
func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]*Certificate, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetOwned returns ownerID's certificate for assetID, or ErrNotFound when
// the asset is absent or owned by someone else.
func (s *Service) GetOwned(ctx context.Context, ownerID, assetID string) (*Certificate, error) {
	c, err := s.repo.GetOwnedByAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// DeleteOwned removes ownerID's certificate for assetID.
func (s *Service) DeleteOwned(ctx context.Context, ownerID, assetID string) error {
	return s.repo.DeleteOwnedByAsset(ctx, ownerID, assetID)
}

// Lookup finds a certificate by asset id regardless of owner. Used by the
// public verify endpoint and by document attachment.
func (s *Service) Lookup(ctx context.Context, assetID string) (*Certificate, error) {
	c, err := s.repo.GetByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// AttachDocument records the stored document key for assetID. Deliberately
// not owner-scoped: field technicians upload against asset ids they do not
// own.
func (s *Service) AttachDocument(ctx context.Context, assetID, key string) error {
	return s.repo.SetDocumentKey(ctx, assetID, key)
}

// All returns every certificate in the store. Used by the admin mirror.
func (s *Service) All(ctx context.Context) ([]*Certificate, error) {
	return s.repo.ListAll(ctx)
}

// Stats computes the dashboard counts for ownerID at now.
func (s *Service) Stats(ctx context.Context, ownerID string, now time.Time) (Stats, error) {
	certs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(certs, now), nil
}

// Alerts computes the notification list for ownerID at now.
func (s *Service) Alerts(ctx context.Context, ownerID string, now time.Time) ([]Alert, error) {
	certs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return Notifications(certs, now), nil
}

// Renewals computes the renewal listing for ownerID at now.
func (s *Service) Renewals(ctx context.Context, ownerID string, now time.Time) ([]Renewal, error) {
	certs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return Renewals(certs, now), nil
}

// ChartSummary computes the chart counts for ownerID.
func (s *Service) ChartSummary(ctx context.Context, ownerID string) (ChartSummary, error) {
	certs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return ChartSummary{}, err
	}
	return Chart(certs), nil
}
