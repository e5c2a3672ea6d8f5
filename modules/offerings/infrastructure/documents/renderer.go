package documents

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
)

// TextReceiptRenderer produces the plain-text receipt body attached to
// every ledger entry. PDF rendering is an external collaborator; this
// renderer covers the stored canonical record.
type TextReceiptRenderer struct{}

func NewTextReceiptRenderer() *TextReceiptRenderer {
	return &TextReceiptRenderer{}
}

func (r *TextReceiptRenderer) Render(o offering.Offering) ([]byte, error) {
	cur := money.GetCurrency(string(o.Currency()))
	if cur == nil {
		return nil, fmt.Errorf("unknown currency: %s", o.Currency())
	}
	minor := o.Amount().Shift(int32(cur.Fraction)).IntPart()
	display := money.New(minor, cur.Code).Display()

	var b strings.Builder
	fmt.Fprintf(&b, "RECEIPT %s\n", o.ReceiptCode())
	fmt.Fprintf(&b, "Date: %s\n", o.Date().Format("2006-01-02"))
	fmt.Fprintf(&b, "Type: %s / %s (%s)\n", o.EntryType(), o.SubType(), o.Category())
	fmt.Fprintf(&b, "Amount: %s\n", display)

	d := o.Dimension()
	fmt.Fprintf(&b, "Church: %s\n", d.ChurchID)
	switch {
	case d.Shift != "":
		fmt.Fprintf(&b, "Shift: %s\n", d.Shift)
	case d.FamilyGroupID.Valid:
		fmt.Fprintf(&b, "Family group: %s\n", d.FamilyGroupID.UUID)
	case d.ZoneID.Valid:
		fmt.Fprintf(&b, "Zone: %s\n", d.ZoneID.UUID)
	case d.PositionID.Valid:
		fmt.Fprintf(&b, "Member: %s (%s)\n", d.PositionID.UUID, d.MemberType)
	case d.ExternalDonorID.Valid:
		fmt.Fprintf(&b, "External donor: %s\n", d.ExternalDonorID.UUID)
	}
	if o.Comments() != "" {
		fmt.Fprintf(&b, "Notes:\n%s\n", o.Comments())
	}
	return []byte(b.String()), nil
}
