package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/accounts"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/config"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/export"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/storage"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/logger"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/metrics"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/middleware"
)

// CertificateHandler holds dependencies for the certificate routes
type CertificateHandler struct {
	cfg         *config.Config
	certsSvc    *certificates.Service
	accountsSvc *accounts.Service
	store       storage.DocumentStore
	now         func() time.Time
}

func NewCertificateHandler(cfg *config.Config, certs *certificates.Service, accts *accounts.Service, store storage.DocumentStore) *CertificateHandler {
	return &CertificateHandler{cfg: cfg, certsSvc: certs, accountsSvc: accts, store: store, now: time.Now}
}

// Register mounts the authenticated certificate routes under rg
func (h *CertificateHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/certificates", auth)
	g.GET("", h.List)
	g.POST("", middleware.RequireAdmin(), h.Create)
	g.GET("/stats", h.Stats)
	g.GET("/notifications", h.Notifications)
	g.GET("/renewals", h.Renewals)
	g.GET("/chart-summary", h.ChartSummary)
	g.GET("/export", h.ExportCSV)
	g.GET("/:assetId", h.Get)
	g.DELETE("/:assetId", h.Delete)
	g.POST("/:assetId/document", h.AttachDocument)
	g.GET("/:assetId/document", h.Document)
	g.GET("/:assetId/qr", h.QR)
}

// RegisterPublic mounts the unauthenticated verify route at the root so the
// URLs baked into QR codes stay short.
func (h *CertificateHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/verify/:assetId", h.Verify)
}

func (h *CertificateHandler) owner(c *gin.Context) string {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return ""
	}
	return sess.AccountID
}

// List returns the caller's certificates
func (h *CertificateHandler) List(c *gin.Context) {
	certs, err := h.certsSvc.ListOwned(c.Request.Context(), h.owner(c))
	if err != nil {
		logger.Errorf("certificate list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, certs)
}

// Create stores a certificate for the account named in the form. Admin-only
// (enforced by RequireAdmin on the route). The optional document upload is
// stored after the record commits; the pair is not atomic.
func (h *CertificateHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	target := c.PostForm("account")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account is required"})
		return
	}
	assetID := c.PostForm("id")
	if assetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	owner, err := h.accountsSvc.GetByUsername(ctx, target)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "target account unknown"})
			return
		}
		logger.Errorf("target account lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account lookup failed"})
		return
	}

	cert := &certificates.Certificate{
		AssetID:        assetID,
		FormType:       c.PostForm("form_type"),
		Equipment:      c.PostForm("type"),
		Site:           c.PostForm("site"),
		InspectionDate: c.PostForm("date"),
		ExpiryDate:     c.PostForm("expiry_date"),
	}
	if err := h.certsSvc.Create(ctx, owner.ID, cert); err != nil {
		if errors.Is(err, certificates.ErrDuplicateAsset) {
			c.JSON(http.StatusConflict, gin.H{"error": "asset id already exists"})
			return
		}
		logger.Errorf("certificate create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "certificate creation failed"})
		return
	}
	metrics.CertificatesCreated.Inc()

	// optional document upload
	if file, err := c.FormFile("pdf_file"); err == nil && file != nil {
		if err := h.storeDocument(c, assetID, file); err != nil {
			// record is committed; the missing document is a soft failure
			logger.Warnf("document upload for %s failed: %v", assetID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "id": assetID})
}

func (h *CertificateHandler) storeDocument(c *gin.Context, assetID string, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	key := storage.DocumentKey(assetID)
	if err := h.store.Upload(c.Request.Context(), key, src, file.Size, "application/pdf"); err != nil {
		return err
	}
	if err := h.certsSvc.AttachDocument(c.Request.Context(), assetID, key); err != nil {
		return err
	}
	metrics.DocumentsUploaded.Inc()
	return nil
}

// Get returns one of the caller's certificates by asset id
func (h *CertificateHandler) Get(c *gin.Context) {
	cert, err := h.certsSvc.GetOwned(c.Request.Context(), h.owner(c), c.Param("assetId"))
	if err != nil {
		if errors.Is(err, certificates.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, cert)
}

// Delete removes one of the caller's certificates by asset id
func (h *CertificateHandler) Delete(c *gin.Context) {
	err := h.certsSvc.DeleteOwned(c.Request.Context(), h.owner(c), c.Param("assetId"))
	if err != nil {
		if errors.Is(err, certificates.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	metrics.CertificatesDeleted.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AttachDocument attaches or replaces the PDF for an asset id. Requires a
// session but is intentionally not owner-scoped: technicians in the field
// upload reports against assets owned by other accounts.
func (h *CertificateHandler) AttachDocument(c *gin.Context) {
	assetID := c.Param("assetId")
	if _, err := h.certsSvc.Lookup(c.Request.Context(), assetID); err != nil {
		if errors.Is(err, certificates.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	file, err := c.FormFile("pdf_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pdf_file is required"})
		return
	}
	if err := h.storeDocument(c, assetID, file); err != nil {
		logger.Errorf("document attach for %s failed: %v", assetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "document": storage.DocumentKey(assetID)})
}

// presigner is implemented by object-storage backends that can hand out
// short-lived direct URLs instead of proxying bytes through the service.
type presigner interface {
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Document serves the attached PDF for one of the caller's certificates.
// Object-storage backends redirect to a presigned URL; the filesystem
// backend streams the file.
func (h *CertificateHandler) Document(c *gin.Context) {
	ctx := c.Request.Context()
	cert, err := h.certsSvc.GetOwned(ctx, h.owner(c), c.Param("assetId"))
	if err != nil {
		if errors.Is(err, certificates.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if cert.DocumentKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no document attached"})
		return
	}

	if p, ok := h.store.(presigner); ok {
		url, err := p.PresignedURL(ctx, cert.DocumentKey, 15*time.Minute)
		if err != nil {
			logger.Errorf("presign for %s failed: %v", cert.AssetID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "document fetch failed"})
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	rc, err := h.store.Download(ctx, cert.DocumentKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document missing from storage"})
			return
		}
		logger.Errorf("document download for %s failed: %v", cert.AssetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document fetch failed"})
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", `inline; filename=`+cert.AssetID+`.pdf`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Warnf("document stream for %s interrupted: %v", cert.AssetID, err)
	}
}

// Stats returns the caller's dashboard counts
func (h *CertificateHandler) Stats(c *gin.Context) {
	st, err := h.certsSvc.Stats(c.Request.Context(), h.owner(c), h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// Notifications returns the caller's expiry alerts
func (h *CertificateHandler) Notifications(c *gin.Context) {
	alerts, err := h.certsSvc.Alerts(c.Request.Context(), h.owner(c), h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notifications failed"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// Renewals returns the caller's 60-day renewal listing, most urgent first
func (h *CertificateHandler) Renewals(c *gin.Context) {
	rs, err := h.certsSvc.Renewals(c.Request.Context(), h.owner(c), h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "renewals failed"})
		return
	}
	c.JSON(http.StatusOK, rs)
}

// ChartSummary returns the caller's chart counts
func (h *CertificateHandler) ChartSummary(c *gin.Context) {
	cs, err := h.certsSvc.ChartSummary(c.Request.Context(), h.owner(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart summary failed"})
		return
	}
	c.JSON(http.StatusOK, cs)
}

// ExportCSV streams the caller's certificates as a CSV attachment
func (h *CertificateHandler) ExportCSV(c *gin.Context) {
	certs, err := h.certsSvc.ListOwned(c.Request.Context(), h.owner(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	out, err := export.CSV(certs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename=report.csv`)
	c.Data(http.StatusOK, "text/csv", out)
}

// QR returns a PNG QR code pointing at the public verify URL for the asset
func (h *CertificateHandler) QR(c *gin.Context) {
	assetID := c.Param("assetId")
	url := h.cfg.Server.PublicURL + "/verify/" + assetID
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr encoding failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Verify is the public, unauthenticated certificate status lookup backing
// the QR codes stamped on equipment.
func (h *CertificateHandler) Verify(c *gin.Context) {
	cert, err := h.certsSvc.Lookup(c.Request.Context(), c.Param("assetId"))
	if err != nil {
		if errors.Is(err, certificates.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, cert)
}
