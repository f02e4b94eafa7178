package consumption

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

// BiocidalLine tracks free-form dosage of a pest-control chemical. Not
// priced and not stock-deducting. Quantity stays a string because field
// dosages are recorded as entered ("0.5", "2-3").
type BiocidalLine struct {
	ProductID *snowflake.ID `json:"product_id,omitempty"`
	Quantity  string        `json:"quantity"`
	Unit      string        `json:"unit"`
	Dosage    string        `json:"dosage"`
}

// PaidLine is a billable consumable usage, priced at save time.
type PaidLine struct {
	ProductID *snowflake.ID `json:"product_id,omitempty"`
	Quantity  float64       `json:"quantity"`
}

// Ledger holds the two parallel consumption line lists of the visit form.
// Both lists always keep at least one line so the form has a row to edit.
type Ledger struct {
	Biocidal []BiocidalLine `json:"biocidal"`
	Paid     []PaidLine     `json:"paid"`
}

var (
	ErrLineOutOfRange = errors.New("line_out_of_range")
	ErrPaidLineEmpty  = errors.New("paid_line_requires_product_and_quantity")
	ErrNoPaidLines    = errors.New("no_valid_paid_lines")
)

// NewLedger returns a ledger with one blank line per list.
func NewLedger() *Ledger {
	return &Ledger{
		Biocidal: []BiocidalLine{{}},
		Paid:     []PaidLine{{}},
	}
}

func (l *Ledger) AddBiocidalLine() {
	l.Biocidal = append(l.Biocidal, BiocidalLine{})
}

func (l *Ledger) AddPaidLine() {
	l.Paid = append(l.Paid, PaidLine{})
}

// RemoveBiocidalLine removes the line at i. Removing the only line resets
// it to a blank line instead.
func (l *Ledger) RemoveBiocidalLine(i int) error {
	if i < 0 || i >= len(l.Biocidal) {
		return ErrLineOutOfRange
	}
	if len(l.Biocidal) == 1 {
		l.Biocidal[0] = BiocidalLine{}
		return nil
	}
	l.Biocidal = append(l.Biocidal[:i], l.Biocidal[i+1:]...)
	return nil
}

func (l *Ledger) RemovePaidLine(i int) error {
	if i < 0 || i >= len(l.Paid) {
		return ErrLineOutOfRange
	}
	if len(l.Paid) == 1 {
		l.Paid[0] = PaidLine{}
		return nil
	}
	l.Paid = append(l.Paid[:i], l.Paid[i+1:]...)
	return nil
}

// SetBiocidalProduct selects a product for one line and auto-fills the
// line's unit from the product. The unit stays freely editable afterwards;
// it is not re-derived by edits to other lines.
func (l *Ledger) SetBiocidalProduct(i int, productID snowflake.ID, productUnit string) error {
	if i < 0 || i >= len(l.Biocidal) {
		return ErrLineOutOfRange
	}
	id := productID
	l.Biocidal[i].ProductID = &id
	l.Biocidal[i].Unit = productUnit
	return nil
}

func (l *Ledger) UpdateBiocidalLine(i int, update func(*BiocidalLine)) error {
	if i < 0 || i >= len(l.Biocidal) {
		return ErrLineOutOfRange
	}
	update(&l.Biocidal[i])
	return nil
}

func (l *Ledger) UpdatePaidLine(i int, update func(*PaidLine)) error {
	if i < 0 || i >= len(l.Paid) {
		return ErrLineOutOfRange
	}
	update(&l.Paid[i])
	return nil
}

// ValidatePaid enforces the pre-save rules: unless the visit is flagged as
// using no paid products, at least one line must carry a product with a
// positive quantity, and no line may carry a product without one.
func (l *Ledger) ValidatePaid(noneUsed bool) error {
	if noneUsed {
		return nil
	}
	valid := 0
	for _, line := range l.Paid {
		if line.ProductID == nil {
			continue
		}
		if line.Quantity <= 0 {
			return ErrPaidLineEmpty
		}
		valid++
	}
	if valid == 0 {
		return ErrNoPaidLines
	}
	return nil
}

// ActiveBiocidal returns the lines that carry both a product and a
// quantity; blank rows are dropped.
func (l *Ledger) ActiveBiocidal() []BiocidalLine {
	out := make([]BiocidalLine, 0, len(l.Biocidal))
	for _, line := range l.Biocidal {
		if line.ProductID == nil || line.Quantity == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ActivePaid returns the paid lines that carry a product.
func (l *Ledger) ActivePaid() []PaidLine {
	out := make([]PaidLine, 0, len(l.Paid))
	for _, line := range l.Paid {
		if line.ProductID == nil {
			continue
		}
		out = append(out, line)
	}
	return out
}
