package offering

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// Prefix is the two-letter receipt series a (type, subtype) pair maps
// to. Codes read ROF-{prefix}-{8 digits} and the series increments by
// one per persisted entry.
type Prefix string

var receiptPrefixes = map[SubType]Prefix{
	SubSundayService:     "CD",
	SubSundaySchool:      "ED",
	SubFamilyGroup:       "GF",
	SubZonalFasting:      "AZ",
	SubZonalVigil:        "VZ",
	SubZonalEvangelism:   "EZ",
	SubGeneralFasting:    "AG",
	SubGeneralVigil:      "VG",
	SubGeneralEvangelism: "EG",
	SubYouthService:      "CJ",
	SubUnitedService:     "CU",
	SubActivities:        "AC",
	SubSpecial:           "OE",
	SubChurchGround:      "TI",
	SubIncomeAdjustment:  "AI",
}

func PrefixFor(entryType EntryType, subType SubType) (Prefix, error) {
	if entryType == TypeIncomeAdjustment {
		return receiptPrefixes[SubIncomeAdjustment], nil
	}
	p, ok := receiptPrefixes[subType]
	if !ok {
		return "", serrors.InvalidState("no receipt series for subtype").
			WithDetail("SubType", string(subType))
	}
	return p, nil
}

// FormatReceiptCode renders the canonical code for a series position.
func FormatReceiptCode(prefix Prefix, n int64) string {
	return fmt.Sprintf("ROF-%s-%08d", prefix, n)
}

var receiptCodePattern = regexp.MustCompile(`^ROF-([A-Z]{2})-(\d{8})$`)

// ParseReceiptCode splits a stored code back into series and position.
func ParseReceiptCode(code string) (Prefix, int64, error) {
	m := receiptCodePattern.FindStringSubmatch(code)
	if m == nil {
		return "", 0, serrors.InvalidState("malformed receipt code").
			WithDetail("Code", code)
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, serrors.InvalidState("malformed receipt code").
			WithDetail("Code", code)
	}
	return Prefix(m[1]), n, nil
}
