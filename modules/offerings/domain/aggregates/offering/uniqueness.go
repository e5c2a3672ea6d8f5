package offering

import (
	"strings"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// KeyField identifies one column of a duplicate-guard uniqueness key.
type KeyField string

const (
	KeySubType       KeyField = "subtype"
	KeyCategory      KeyField = "category"
	KeyChurch        KeyField = "church"
	KeyDate          KeyField = "date"
	KeyCurrency      KeyField = "currency"
	KeyShift         KeyField = "shift"
	KeyFamilyGroup   KeyField = "family_group"
	KeyZone          KeyField = "zone"
	KeyMemberType    KeyField = "member_type"
	KeyPosition      KeyField = "position"
	KeyExternalDonor KeyField = "external_donor"
)

// uniquenessKeys declares, per subtype, which fields must not repeat
// among active entries. Inactive history may collide freely.
var uniquenessKeys = map[SubType][]KeyField{
	SubSundayService:     {KeySubType, KeyCategory, KeyChurch, KeyShift, KeyDate, KeyCurrency},
	SubSundaySchool:      {KeySubType, KeyCategory, KeyChurch, KeyShift, KeyDate, KeyCurrency},
	SubFamilyGroup:       {KeySubType, KeyCategory, KeyChurch, KeyFamilyGroup, KeyDate, KeyCurrency},
	SubZonalFasting:      {KeySubType, KeyCategory, KeyChurch, KeyZone, KeyDate, KeyCurrency},
	SubZonalVigil:        {KeySubType, KeyCategory, KeyChurch, KeyZone, KeyDate, KeyCurrency},
	SubZonalEvangelism:   {KeySubType, KeyCategory, KeyChurch, KeyZone, KeyDate, KeyCurrency},
	SubGeneralFasting:    {KeySubType, KeyCategory, KeyChurch, KeyDate, KeyCurrency},
	SubGeneralVigil:      {KeySubType, KeyCategory, KeyChurch, KeyDate, KeyCurrency},
	SubGeneralEvangelism: {KeySubType, KeyCategory, KeyChurch, KeyDate, KeyCurrency},
	SubYouthService:      {KeySubType, KeyCategory, KeyChurch, KeyShift, KeyDate, KeyCurrency},
	SubUnitedService:     {KeySubType, KeyCategory, KeyChurch, KeyDate, KeyCurrency},
	SubActivities:        {KeySubType, KeyCategory, KeyChurch, KeyDate, KeyCurrency},
	SubSpecial:           {KeySubType, KeyCategory, KeyChurch, KeyMemberType, KeyPosition, KeyDate, KeyCurrency},
	SubChurchGround:      {KeySubType, KeyCategory, KeyChurch, KeyMemberType, KeyPosition, KeyDate, KeyCurrency},
	SubIncomeAdjustment:  {KeyChurch, KeyDate, KeyCurrency},
}

// KeyFieldsFor returns the uniqueness key for an entry. Internal and
// external donations narrow the church-level key to the donor, whatever
// the subtype says.
func KeyFieldsFor(entryType EntryType, subType SubType, category Category) []KeyField {
	if entryType == TypeIncomeAdjustment {
		return uniquenessKeys[SubIncomeAdjustment]
	}
	switch category {
	case CategoryInternalDonation:
		return []KeyField{KeySubType, KeyCategory, KeyChurch, KeyMemberType, KeyPosition, KeyDate, KeyCurrency}
	case CategoryExternalDonation:
		return []KeyField{KeySubType, KeyCategory, KeyChurch, KeyExternalDonor, KeyDate, KeyCurrency}
	}
	fields, ok := uniquenessKeys[subType]
	if !ok {
		return []KeyField{KeySubType, KeyCategory, KeyChurch, KeyDate, KeyCurrency}
	}
	return fields
}

// KeyValue resolves one key field against a concrete entry.
func (o Offering) KeyValue(field KeyField) string {
	d := o.dimension
	switch field {
	case KeySubType:
		return string(o.subType)
	case KeyCategory:
		return string(o.category)
	case KeyChurch:
		return d.ChurchID.String()
	case KeyDate:
		return o.date.Format("2006-01-02")
	case KeyCurrency:
		return string(o.currency)
	case KeyShift:
		return string(d.Shift)
	case KeyFamilyGroup:
		if d.FamilyGroupID.Valid {
			return d.FamilyGroupID.UUID.String()
		}
	case KeyZone:
		if d.ZoneID.Valid {
			return d.ZoneID.UUID.String()
		}
	case KeyMemberType:
		return d.MemberType
	case KeyPosition:
		if d.PositionID.Valid {
			return d.PositionID.UUID.String()
		}
	case KeyExternalDonor:
		if d.ExternalDonorID.Valid {
			return d.ExternalDonorID.UUID.String()
		}
	}
	return ""
}

// DuplicateError reports a second active entry for the same financial
// fact, naming every colliding dimension value.
func DuplicateError(o Offering) *serrors.BaseError {
	e := serrors.Conflict("ledger entry already recorded for this fact")
	for _, field := range KeyFieldsFor(o.entryType, o.subType, o.category) {
		e = e.WithDetail(string(field), o.KeyValue(field))
	}
	return e
}

// UniquenessKey is the ordered field=value rendering used both for the
// advisory lock hash and for conflict messages.
func (o Offering) UniquenessKey() string {
	fields := KeyFieldsFor(o.entryType, o.subType, o.category)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, string(f)+"="+o.KeyValue(f))
	}
	return strings.Join(parts, "|")
}
