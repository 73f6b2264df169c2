package renewal

import (
	"context"
	"time"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// historyDepth caps how many outreach records feed the history derivation.
const historyDepth = 20

// outreachDateLayout matches the expiration dates stamped into outreach
// metadata (same MM/DD/YYYY form as the certificates they reference).
const outreachDateLayout = "01/02/2006"

// NeutralHistory is the history used when no usable data exists: no
// adjustment in either direction.
func NeutralHistory() domain.VendorHistory {
	return domain.VendorHistory{}
}

// LoadVendorHistory derives a vendor's renewal behavior from its most
// recent outreach records. A record counts as late when it was created
// after the policy expiration recorded in its metadata; records without
// both a parseable expiration and a creation timestamp are skipped.
// LastOutcome reflects only the most recent countable record.
func LoadVendorHistory(ctx context.Context, repo domain.Repository, orgID, vendorID string) (domain.VendorHistory, error) {
	records, err := repo.ListOutreachHistory(ctx, orgID, vendorID, historyDepth)
	if err != nil {
		return NeutralHistory(), err
	}

	history := domain.VendorHistory{}
	sawMostRecent := false

	// Records arrive most recent first.
	for _, rec := range records {
		expDate, ok := outreachExpiration(rec)
		if !ok || rec.CreatedAt.IsZero() {
			continue
		}

		late := rec.CreatedAt.After(expDate)
		if late {
			history.LateRenewals++
		} else {
			history.OnTimeRenewals++
		}

		if !sawMostRecent {
			sawMostRecent = true
			if late {
				history.LastOutcome = domain.OutcomeExpired
			} else {
				history.LastOutcome = domain.OutcomeOnTime
			}
		}
	}

	return history, nil
}

// HistoryOrNeutral makes the fail-open behavior explicit: a datastore error
// degrades to the neutral history instead of propagating.
func HistoryOrNeutral(history domain.VendorHistory, err error) domain.VendorHistory {
	if err != nil {
		return NeutralHistory()
	}
	return history
}

func outreachExpiration(rec *domain.OutreachRecord) (time.Time, bool) {
	if rec == nil || rec.Meta == nil {
		return time.Time{}, false
	}
	raw, ok := rec.Meta["expDate"].(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(outreachDateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
