package offering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

type EntryType string

const (
	TypeOffering         EntryType = "offering"
	TypeIncomeAdjustment EntryType = "income_adjustment"
)

type SubType string

const (
	SubSundayService     SubType = "sunday_service"
	SubSundaySchool      SubType = "sunday_school"
	SubFamilyGroup       SubType = "family_group"
	SubZonalFasting      SubType = "zonal_fasting"
	SubZonalVigil        SubType = "zonal_vigil"
	SubZonalEvangelism   SubType = "zonal_evangelism"
	SubGeneralFasting    SubType = "general_fasting"
	SubGeneralVigil      SubType = "general_vigil"
	SubGeneralEvangelism SubType = "general_evangelism"
	SubYouthService      SubType = "youth_service"
	SubUnitedService     SubType = "united_service"
	SubActivities        SubType = "activities"
	SubSpecial           SubType = "special"
	SubChurchGround      SubType = "church_ground"
	SubIncomeAdjustment  SubType = "income_adjustment"
)

// Valid reports membership in the closed entry type set.
func (t EntryType) Valid() bool {
	return t == TypeOffering || t == TypeIncomeAdjustment
}

func (s SubType) Valid() bool {
	switch s {
	case SubSundayService, SubSundaySchool, SubFamilyGroup,
		SubZonalFasting, SubZonalVigil, SubZonalEvangelism,
		SubGeneralFasting, SubGeneralVigil, SubGeneralEvangelism,
		SubYouthService, SubUnitedService, SubActivities,
		SubSpecial, SubChurchGround, SubIncomeAdjustment:
		return true
	}
	return false
}

type Category string

const (
	CategoryGeneral          Category = "general"
	CategoryInternalDonation Category = "internal_donation"
	CategoryExternalDonation Category = "external_donation"
	CategoryFundraising      Category = "fundraising"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryInternalDonation, CategoryExternalDonation, CategoryFundraising:
		return true
	}
	return false
}

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

type Currency string

const (
	CurrencyPEN Currency = "PEN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyPEN, CurrencyUSD, CurrencyEUR:
		return Currency(s), nil
	}
	return "", serrors.InvalidState("unsupported currency").WithDetail("Currency", s)
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type InactivationReason string

const (
	ReasonTypingError      InactivationReason = "typing_error"
	ReasonDuplicateRecord  InactivationReason = "duplicate_record"
	ReasonCurrencyExchange InactivationReason = "currency_exchange"
)

// Dimension is the single owner of a ledger entry. Exactly one of the
// five shapes must be populated: church+shift, family group, zone,
// position+member type, or external donor.
type Dimension struct {
	ChurchID        uuid.UUID
	Shift           Shift
	FamilyGroupID   uuid.NullUUID
	ZoneID          uuid.NullUUID
	PositionID      uuid.NullUUID
	MemberType      string
	ExternalDonorID uuid.NullUUID
}

// Shape names the populated owner kind.
func (d Dimension) Shape() (string, error) {
	populated := 0
	shape := ""
	if d.Shift != "" {
		if !d.Shift.Valid() {
			return "", serrors.InvalidState("unknown shift").
				WithDetail("Shift", string(d.Shift))
		}
		populated++
		shape = "church_shift"
	}
	if d.FamilyGroupID.Valid {
		populated++
		shape = "family_group"
	}
	if d.ZoneID.Valid {
		populated++
		shape = "zone"
	}
	if d.PositionID.Valid {
		populated++
		shape = "position"
	}
	if d.ExternalDonorID.Valid {
		populated++
		shape = "external_donor"
	}
	if populated != 1 {
		return "", serrors.InvalidState("entry must have exactly one owning dimension").
			WithDetail("Populated", fmt.Sprintf("%d", populated))
	}
	if shape == "position" && d.MemberType == "" {
		return "", serrors.InvalidState("position-owned entry requires a member type")
	}
	return shape, nil
}

// Offering is one ledger entry. The identity fields (type, subtype,
// shift, owning dimension) never change after creation; the receipt
// code is assigned once at creation and kept verbatim forever.
type Offering struct {
	id          uuid.UUID
	entryType   EntryType
	subType     SubType
	category    Category
	amount      decimal.Decimal
	currency    Currency
	date        time.Time
	dimension   Dimension
	receiptCode string
	documents   []string
	comments    string
	status      Status

	inactivationReason InactivationReason

	createdBy string
	updatedBy string
	createdAt time.Time
	updatedAt time.Time
}

func New(
	entryType EntryType,
	subType SubType,
	category Category,
	amount decimal.Decimal,
	currency Currency,
	date time.Time,
	dimension Dimension,
) (Offering, error) {
	if !entryType.Valid() {
		return Offering{}, serrors.InvalidState("unknown entry type").
			WithDetail("EntryType", string(entryType))
	}
	if !subType.Valid() {
		return Offering{}, serrors.InvalidState("unknown sub type").
			WithDetail("SubType", string(subType))
	}
	if !category.Valid() {
		return Offering{}, serrors.InvalidState("unknown category").
			WithDetail("Category", string(category))
	}
	if _, err := ParseCurrency(string(currency)); err != nil {
		return Offering{}, err
	}
	if amount.IsNegative() {
		return Offering{}, serrors.InvalidState("amount must not be negative").
			WithDetail("Amount", amount.String())
	}
	if _, err := dimension.Shape(); err != nil {
		return Offering{}, err
	}
	return Offering{
		id:        uuid.New(),
		entryType: entryType,
		subType:   subType,
		category:  category,
		amount:    amount,
		currency:  currency,
		date:      date.Truncate(24 * time.Hour),
		dimension: dimension,
		status:    StatusActive,
	}, nil
}

func Hydrate(
	id uuid.UUID,
	entryType EntryType,
	subType SubType,
	category Category,
	amount decimal.Decimal,
	currency Currency,
	date time.Time,
	dimension Dimension,
	receiptCode string,
	documents []string,
	comments string,
	status Status,
	inactivationReason InactivationReason,
	createdBy, updatedBy string,
	createdAt, updatedAt time.Time,
) Offering {
	return Offering{
		id:                 id,
		entryType:          entryType,
		subType:            subType,
		category:           category,
		amount:             amount,
		currency:           currency,
		date:               date,
		dimension:          dimension,
		receiptCode:        receiptCode,
		documents:          documents,
		comments:           comments,
		status:             status,
		inactivationReason: inactivationReason,
		createdBy:          createdBy,
		updatedBy:          updatedBy,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (o Offering) ID() uuid.UUID           { return o.id }
func (o Offering) EntryType() EntryType    { return o.entryType }
func (o Offering) SubType() SubType        { return o.subType }
func (o Offering) Category() Category      { return o.category }
func (o Offering) Amount() decimal.Decimal { return o.amount }
func (o Offering) Currency() Currency      { return o.currency }
func (o Offering) Date() time.Time         { return o.date }
func (o Offering) Dimension() Dimension    { return o.dimension }
func (o Offering) ReceiptCode() string     { return o.receiptCode }
func (o Offering) Documents() []string     { return o.documents }
func (o Offering) Comments() string        { return o.comments }
func (o Offering) Status() Status          { return o.status }
func (o Offering) IsActive() bool          { return o.status == StatusActive }
func (o Offering) InactivationReason() InactivationReason {
	return o.inactivationReason
}
func (o Offering) CreatedBy() string    { return o.createdBy }
func (o Offering) UpdatedBy() string    { return o.updatedBy }
func (o Offering) CreatedAt() time.Time { return o.createdAt }
func (o Offering) UpdatedAt() time.Time { return o.updatedAt }

func (o Offering) WithReceiptCode(code string) Offering {
	o.receiptCode = code
	return o
}

func (o Offering) WithDocuments(docs []string) Offering {
	o.documents = docs
	return o
}

func (o Offering) WithAudit(createdBy, updatedBy string) Offering {
	if createdBy != "" {
		o.createdBy = createdBy
	}
	if updatedBy != "" {
		o.updatedBy = updatedBy
	}
	return o
}

// AppendComment adds one dated structured line to the comment trail.
func (o Offering) AppendComment(line string) Offering {
	if o.comments == "" {
		o.comments = line
	} else {
		o.comments = o.comments + "\n" + line
	}
	return o
}

// Update carries the fields an existing entry may change. Identity
// fields are not here on purpose.
type Update struct {
	Amount   *decimal.Decimal
	Currency *Currency
	Comments *string
}

func (o Offering) Apply(upd Update) (Offering, error) {
	if upd.Amount != nil {
		if upd.Amount.IsNegative() {
			return Offering{}, serrors.InvalidState("amount must not be negative").
				WithDetail("Amount", upd.Amount.String())
		}
		o.amount = *upd.Amount
	}
	if upd.Currency != nil {
		if _, err := ParseCurrency(string(*upd.Currency)); err != nil {
			return Offering{}, err
		}
		o.currency = *upd.Currency
	}
	if upd.Comments != nil {
		o.comments = *upd.Comments
	}
	return o, nil
}

func (o Offering) Inactivate(reason InactivationReason, line string) Offering {
	o.status = StatusInactive
	o.inactivationReason = reason
	return o.AppendComment(line)
}

// AddAmount is used by currency reconciliation when the converted sum
// merges into an existing target-currency entry.
func (o Offering) AddAmount(delta decimal.Decimal) Offering {
	o.amount = o.amount.Add(delta)
	return o
}

// Repoint moves position ownership to a successor position. Only valid
// for position-owned entries; the caller guards that.
func (o Offering) Repoint(newPositionID uuid.UUID, memberType string) Offering {
	o.dimension.PositionID = uuid.NullUUID{UUID: newPositionID, Valid: true}
	o.dimension.MemberType = memberType
	return o
}
