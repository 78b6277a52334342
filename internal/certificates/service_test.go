package certificates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates/repository"
)

func newServiceWith(t *testing.T, certs ...*certificates.Certificate) *certificates.Service {
	t.Helper()
	svc := certificates.NewService(repository.NewMemoryRepo())
	ctx := context.Background()
	for _, c := range certs {
		owner := c.OwnerID
		require.NoError(t, svc.Create(ctx, owner, c))
	}
	return svc
}

func TestCreateDuplicateAssetID(t *testing.T) {
	svc := newServiceWith(t, &certificates.Certificate{AssetID: "CRANE-01", OwnerID: "acc-a", ExpiryDate: "2025-01-01"})
	err := svc.Create(context.Background(), "acc-b", &certificates.Certificate{AssetID: "CRANE-01", ExpiryDate: "2025-06-01"})
	require.ErrorIs(t, err, certificates.ErrDuplicateAsset)
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc := newServiceWith(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "acc-a", &certificates.Certificate{AssetID: "HOIST-02", ExpiryDate: "2025-01-01"}))
	c, err := svc.GetOwned(ctx, "acc-a", "HOIST-02")
	require.NoError(t, err)
	require.Equal(t, certificates.StatusValid, c.Status)
}

func TestOwnershipIsolation(t *testing.T) {
	svc := newServiceWith(t,
		&certificates.Certificate{AssetID: "A-1", OwnerID: "acc-a", ExpiryDate: "2025-01-01"},
		&certificates.Certificate{AssetID: "A-2", OwnerID: "acc-a", ExpiryDate: "2025-02-01"},
		&certificates.Certificate{AssetID: "B-1", OwnerID: "acc-b", ExpiryDate: "2025-03-01"},
	)
	ctx := context.Background()

	listA, err := svc.ListOwned(ctx, "acc-a")
	require.NoError(t, err)
	require.Len(t, listA, 2)
	for _, c := range listA {
		require.Equal(t, "acc-a", c.OwnerID)
	}

	// reading another account's asset id is a not-found, not a leak
	_, err = svc.GetOwned(ctx, "acc-a", "B-1")
	require.ErrorIs(t, err, certificates.ErrNotFound)

	// deleting another account's asset id must not touch it
	err = svc.DeleteOwned(ctx, "acc-a", "B-1")
	require.ErrorIs(t, err, certificates.ErrNotFound)
	stillThere, err := svc.GetOwned(ctx, "acc-b", "B-1")
	require.NoError(t, err)
	require.Equal(t, "B-1", stillThere.AssetID)
}

func TestDeleteOwned(t *testing.T) {
	svc := newServiceWith(t, &certificates.Certificate{AssetID: "A-1", OwnerID: "acc-a", ExpiryDate: "2025-01-01"})
	ctx := context.Background()

	require.NoError(t, svc.DeleteOwned(ctx, "acc-a", "A-1"))
	_, err := svc.GetOwned(ctx, "acc-a", "A-1")
	require.ErrorIs(t, err, certificates.ErrNotFound)

	err = svc.DeleteOwned(ctx, "acc-a", "A-1")
	require.ErrorIs(t, err, certificates.ErrNotFound)
}

func TestAttachDocumentUnscoped(t *testing.T) {
	svc := newServiceWith(t, &certificates.Certificate{AssetID: "A-1", OwnerID: "acc-a", ExpiryDate: "2025-01-01"})
	ctx := context.Background()

	// any caller may attach by asset id, ownership is not checked
	require.NoError(t, svc.AttachDocument(ctx, "A-1", "documents/A-1.pdf"))
	c, err := svc.GetOwned(ctx, "acc-a", "A-1")
	require.NoError(t, err)
	require.Equal(t, "documents/A-1.pdf", c.DocumentKey)

	err = svc.AttachDocument(ctx, "GHOST-9", "documents/GHOST-9.pdf")
	require.ErrorIs(t, err, certificates.ErrNotFound)
}

func TestLookupIgnoresOwner(t *testing.T) {
	svc := newServiceWith(t, &certificates.Certificate{AssetID: "A-1", OwnerID: "acc-a", ExpiryDate: "2025-01-01"})
	c, err := svc.Lookup(context.Background(), "A-1")
	require.NoError(t, err)
	require.Equal(t, "A-1", c.AssetID)

	_, err = svc.Lookup(context.Background(), "missing")
	require.ErrorIs(t, err, certificates.ErrNotFound)
}

func TestDerivedViewsAreOwnerScoped(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)
	svc := newServiceWith(t,
		&certificates.Certificate{AssetID: "A-1", OwnerID: "acc-a", ExpiryDate: "2024-06-11"},
		&certificates.Certificate{AssetID: "B-1", OwnerID: "acc-b", ExpiryDate: "2024-06-11"},
	)
	ctx := context.Background()

	st, err := svc.Stats(ctx, "acc-a", now)
	require.NoError(t, err)
	require.Equal(t, 1, st.Total)

	alerts, err := svc.Alerts(ctx, "acc-a", now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "A-1", alerts[0].AssetID)

	rs, err := svc.Renewals(ctx, "acc-a", now)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	require.Equal(t, "A-1", rs[0].AssetID)
}

func TestErrNotFoundIsSentinel(t *testing.T) {
	svc := newServiceWith(t)
	_, err := svc.GetOwned(context.Background(), "acc-a", "nope")
	require.True(t, errors.Is(err, certificates.ErrNotFound))
}
