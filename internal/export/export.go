// Package export renders certificate collections as downloadable reports:
// a CSV for the dashboard export button and an XLSX workbook for the
// spreadsheet mirror.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
)

var csvHeader = []string{"Asset ID", "Equipment", "Site", "Expiry"}

// CSV renders the report the portal has always exported: one row per
// certificate with asset id, equipment, site and expiry date.
func CSV(certs []*certificates.Certificate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range certs {
		if err := w.Write([]string{c.AssetID, c.Equipment, c.Site, c.ExpiryDate}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const sheetName = "Certificates"

// Workbook builds the XLSX mirror of the full certificate table, including
// the owning account column the CSV omits.
func Workbook(certs []*certificates.Certificate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header := []interface{}{"Asset ID", "Form Type", "Equipment", "Site", "Inspection Date", "Expiry Date", "Status", "Document", "Owner"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	for i, c := range certs {
		row := []interface{}{c.AssetID, c.FormType, c.Equipment, c.Site, c.InspectionDate, c.ExpiryDate, c.Status, c.DocumentKey, c.OwnerID}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
