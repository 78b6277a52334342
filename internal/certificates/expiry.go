package certificates

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// expiryLayout is the calendar-date form certificates store ("YYYY-MM-DD").
const expiryLayout = "2006-01-02"

const (
	// soonWindowDays bounds the dashboard "soon" bucket and the warning alerts.
	soonWindowDays = 7
	// renewalHorizonDays bounds the renewals listing.
	renewalHorizonDays = 60
)

// ParseExpiry parses an expiry-date string, tolerating surrounding
// whitespace. The ok result is false for anything that is not a
// YYYY-MM-DD date; callers skip such records rather than failing a batch.
// The date is interpreted in server-local time so the day boundary lines
// up with the local clock the handlers pass in.
func ParseExpiry(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(expiryLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysLeft returns the whole days from now until expiry, flooring the
// fractional day toward the past. A mid-day "now" against tomorrow's
// midnight therefore yields 0, and against yesterday's midnight -1.
func DaysLeft(expiry, now time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}

// Stats are the dashboard counts for one account. Total counts every owned
// certificate; the three buckets partition only the classifiable ones.
type Stats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Soon    int `json:"soon"`
	Expired int `json:"expired"`
}

// ComputeStats buckets certs by days left at now. Certificates whose expiry
// string does not parse are counted in Total only.
func ComputeStats(certs []*Certificate, now time.Time) Stats {
	st := Stats{Total: len(certs)}
	for _, c := range certs {
		exp, ok := ParseExpiry(c.ExpiryDate)
		if !ok {
			continue
		}
		days := DaysLeft(exp, now)
		switch {
		case days < 0:
			st.Expired++
		case days <= soonWindowDays:
			st.Soon++
		default:
			st.Valid++
		}
	}
	return st
}

// Alert is one expiry notification.
type Alert struct {
	AssetID string `json:"id"`
	Message string `json:"msg"`
	Type    string `json:"type"`
}

// Notifications emits alerts for certificates expiring within the warning
// window. Exactly one day left is urgent; two to seven days is a warning.
// Zero days left and already-expired certificates emit nothing, which
// intentionally differs from the dashboard's inclusive "soon" bucket.
func Notifications(certs []*Certificate, now time.Time) []Alert {
	alerts := []Alert{}
	for _, c := range certs {
		exp, ok := ParseExpiry(c.ExpiryDate)
		if !ok {
			continue
		}
		days := DaysLeft(exp, now)
		if days == 1 {
			alerts = append(alerts, Alert{AssetID: c.AssetID, Message: "Expires Tomorrow", Type: "urgent"})
		} else if days > 0 && days <= soonWindowDays {
			alerts = append(alerts, Alert{AssetID: c.AssetID, Message: fmt.Sprintf("Expires in %d days", days), Type: "warning"})
		}
	}
	return alerts
}

// Renewal annotates a certificate due (or overdue) for renewal with its
// computed days left.
type Renewal struct {
	AssetID    string `json:"id"`
	Equipment  string `json:"type"`
	Site       string `json:"site"`
	ExpiryDate string `json:"expiry"`
	Status     string `json:"status"`
	DaysLeft   int    `json:"days_left"`
}

// Renewals lists every classifiable certificate within the 60-day horizon,
// expired ones included, most urgent first. Ties keep input order.
func Renewals(certs []*Certificate, now time.Time) []Renewal {
	out := []Renewal{}
	for _, c := range certs {
		exp, ok := ParseExpiry(c.ExpiryDate)
		if !ok {
			continue
		}
		days := DaysLeft(exp, now)
		if days > renewalHorizonDays {
			continue
		}
		out = append(out, Renewal{
			AssetID:    c.AssetID,
			Equipment:  c.Equipment,
			Site:       c.Site,
			ExpiryDate: c.ExpiryDate,
			Status:     c.Status,
			DaysLeft:   days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysLeft < out[j].DaysLeft })
	return out
}

// ChartSummary feeds the dashboard charts: a valid/expired split by the
// stored status label (not by date arithmetic) plus a type total.
type ChartSummary struct {
	StatusLabels []string `json:"status_labels"`
	StatusValues []int    `json:"status_values"`
	TypeLabels   []string `json:"type_labels"`
	TypeValues   []int    `json:"type_values"`
}

// Chart counts certificates whose status label is exactly "Valid"; every
// other label counts as expired.
func Chart(certs []*Certificate) ChartSummary {
	valid := 0
	for _, c := range certs {
		if c.Status == StatusValid {
			valid++
		}
	}
	return ChartSummary{
		StatusLabels: []string{"Valid", "Expired"},
		StatusValues: []int{valid, len(certs) - valid},
		TypeLabels:   []string{"Equipment"},
		TypeValues:   []int{len(certs)},
	}
}
