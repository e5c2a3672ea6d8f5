package offering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

func sampleEntry(t *testing.T, subType SubType, category Category, dim Dimension) Offering {
	t.Helper()
	o, err := New(
		TypeOffering, subType, category,
		decimal.NewFromInt(100), CurrencyPEN,
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		dim,
	)
	require.NoError(t, err)
	return o
}

func TestKeyFieldsFor(t *testing.T) {
	fields := KeyFieldsFor(TypeOffering, SubSundayService, CategoryGeneral)
	require.Equal(t, []KeyField{KeySubType, KeyCategory, KeyChurch, KeyShift, KeyDate, KeyCurrency}, fields)

	fields = KeyFieldsFor(TypeOffering, SubFamilyGroup, CategoryGeneral)
	require.Equal(t, []KeyField{KeySubType, KeyCategory, KeyChurch, KeyFamilyGroup, KeyDate, KeyCurrency}, fields)

	// Internal donations key on the owning member, not the subtype table.
	fields = KeyFieldsFor(TypeOffering, SubSpecial, CategoryInternalDonation)
	require.Equal(t, []KeyField{KeySubType, KeyCategory, KeyChurch, KeyMemberType, KeyPosition, KeyDate, KeyCurrency}, fields)

	fields = KeyFieldsFor(TypeIncomeAdjustment, SubIncomeAdjustment, CategoryGeneral)
	require.Equal(t, []KeyField{KeyChurch, KeyDate, KeyCurrency}, fields)
}

func TestUniquenessKey_SameFactsSameKey(t *testing.T) {
	churchID := uuid.New()
	dim := Dimension{ChurchID: churchID, Shift: ShiftMorning}

	a := sampleEntry(t, SubSundayService, CategoryGeneral, dim)
	b := sampleEntry(t, SubSundayService, CategoryGeneral, dim)
	require.Equal(t, a.UniquenessKey(), b.UniquenessKey())

	evening := sampleEntry(t, SubSundayService, CategoryGeneral, Dimension{ChurchID: churchID, Shift: ShiftEvening})
	require.NotEqual(t, a.UniquenessKey(), evening.UniquenessKey())
}

func TestUniquenessKey_NamesEveryDimension(t *testing.T) {
	churchID := uuid.New()
	groupID := uuid.New()
	o := sampleEntry(t, SubFamilyGroup, CategoryGeneral, Dimension{
		ChurchID:      churchID,
		FamilyGroupID: uuid.NullUUID{UUID: groupID, Valid: true},
	})

	key := o.UniquenessKey()
	require.Contains(t, key, "subtype=family_group")
	require.Contains(t, key, "church="+churchID.String())
	require.Contains(t, key, "family_group="+groupID.String())
	require.Contains(t, key, "date=2024-01-07")
	require.Contains(t, key, "currency=PEN")
}

func TestDimensionShape(t *testing.T) {
	churchID := uuid.New()

	shape, err := Dimension{ChurchID: churchID, Shift: ShiftMorning}.Shape()
	require.NoError(t, err)
	require.Equal(t, "church_shift", shape)

	shape, err = Dimension{ChurchID: churchID, ZoneID: uuid.NullUUID{UUID: uuid.New(), Valid: true}}.Shape()
	require.NoError(t, err)
	require.Equal(t, "zone", shape)

	_, err = Dimension{ChurchID: churchID}.Shape()
	require.Error(t, err)

	_, err = Dimension{
		ChurchID: churchID,
		Shift:    ShiftMorning,
		ZoneID:   uuid.NullUUID{UUID: uuid.New(), Valid: true},
	}.Shape()
	require.Error(t, err)

	// Position ownership needs the member-type tag.
	_, err = Dimension{ChurchID: churchID, PositionID: uuid.NullUUID{UUID: uuid.New(), Valid: true}}.Shape()
	require.Error(t, err)

	shape, err = Dimension{
		ChurchID:   churchID,
		PositionID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
		MemberType: "preacher",
	}.Shape()
	require.NoError(t, err)
	require.Equal(t, "position", shape)
}

func TestOfferingIdentityRules(t *testing.T) {
	_, err := New(
		TypeOffering, SubSundayService, CategoryGeneral,
		decimal.NewFromInt(-1), CurrencyPEN,
		time.Now(), Dimension{ChurchID: uuid.New(), Shift: ShiftMorning},
	)
	require.Error(t, err)

	o := sampleEntry(t, SubSundayService, CategoryGeneral, Dimension{ChurchID: uuid.New(), Shift: ShiftMorning})
	neg := decimal.NewFromInt(-5)
	_, err = o.Apply(Update{Amount: &neg})
	require.Error(t, err)

	amount := decimal.RequireFromString("250.50")
	updated, err := o.Apply(Update{Amount: &amount})
	require.NoError(t, err)
	require.True(t, updated.Amount().Equal(amount))
	require.Equal(t, o.SubType(), updated.SubType())
}

func TestOfferingClosedEnums(t *testing.T) {
	dim := Dimension{ChurchID: uuid.New(), Shift: ShiftMorning}
	date := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(100)

	cases := []struct {
		name      string
		entryType EntryType
		subType   SubType
		category  Category
		currency  Currency
		dim       Dimension
	}{
		{"unknown entry type", "donativo", SubSundayService, CategoryGeneral, CurrencyPEN, dim},
		{"unknown sub type", TypeOffering, "monday_service", CategoryGeneral, CurrencyPEN, dim},
		{"unknown category", TypeOffering, SubSundayService, "misc", CurrencyPEN, dim},
		{"unknown currency", TypeOffering, SubSundayService, CategoryGeneral, "GBP", dim},
		{"unknown shift", TypeOffering, SubSundayService, CategoryGeneral, CurrencyPEN,
			Dimension{ChurchID: uuid.New(), Shift: "noon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.entryType, tc.subType, tc.category, amount, tc.currency, date, tc.dim)
			require.Error(t, err)
			require.True(t, serrors.IsCode(err, serrors.CodeInvalidState))
		})
	}

	o := sampleEntry(t, SubSundayService, CategoryGeneral, dim)
	bad := Currency("GBP")
	_, err := o.Apply(Update{Currency: &bad})
	require.Error(t, err)
	require.True(t, serrors.IsCode(err, serrors.CodeInvalidState))

	usd := CurrencyUSD
	updated, err := o.Apply(Update{Currency: &usd})
	require.NoError(t, err)
	require.Equal(t, CurrencyUSD, updated.Currency())
}
