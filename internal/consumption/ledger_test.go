package consumption

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idPtr(v int64) *snowflake.ID {
	id := snowflake.ID(v)
	return &id
}

func TestNewLedgerStartsWithBlankLines(t *testing.T) {
	l := NewLedger()
	require.Len(t, l.Biocidal, 1)
	require.Len(t, l.Paid, 1)
	assert.Nil(t, l.Biocidal[0].ProductID)
	assert.Nil(t, l.Paid[0].ProductID)
}

func TestRemoveLastLineResetsInsteadOfEmptying(t *testing.T) {
	l := NewLedger()
	l.Biocidal[0] = BiocidalLine{ProductID: idPtr(1), Quantity: "2", Unit: "ml"}
	l.Paid[0] = PaidLine{ProductID: idPtr(2), Quantity: 3}

	require.NoError(t, l.RemoveBiocidalLine(0))
	require.NoError(t, l.RemovePaidLine(0))

	require.Len(t, l.Biocidal, 1)
	require.Len(t, l.Paid, 1)
	assert.Equal(t, BiocidalLine{}, l.Biocidal[0])
	assert.Equal(t, PaidLine{}, l.Paid[0])
}

func TestRemoveMiddleLine(t *testing.T) {
	l := NewLedger()
	l.AddBiocidalLine()
	l.AddBiocidalLine()
	l.Biocidal[1].Quantity = "5"

	require.NoError(t, l.RemoveBiocidalLine(1))
	require.Len(t, l.Biocidal, 2)
	assert.Empty(t, l.Biocidal[1].Quantity)

	assert.ErrorIs(t, l.RemoveBiocidalLine(5), ErrLineOutOfRange)
	assert.ErrorIs(t, l.RemovePaidLine(-1), ErrLineOutOfRange)
}

func TestSetBiocidalProductAutoFillsUnit(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.SetBiocidalProduct(0, snowflake.ID(10), "ml"))
	assert.Equal(t, "ml", l.Biocidal[0].Unit)
	require.NotNil(t, l.Biocidal[0].ProductID)
	assert.Equal(t, snowflake.ID(10), *l.Biocidal[0].ProductID)

	// The unit stays editable after auto-fill.
	require.NoError(t, l.UpdateBiocidalLine(0, func(line *BiocidalLine) {
		line.Unit = "gr"
	}))
	assert.Equal(t, "gr", l.Biocidal[0].Unit)
}

func TestValidatePaid(t *testing.T) {
	l := NewLedger()

	// Blank-only lines with the none-used flag pass.
	assert.NoError(t, l.ValidatePaid(true))

	// Without the flag at least one complete line is required.
	assert.ErrorIs(t, l.ValidatePaid(false), ErrNoPaidLines)

	// A product without a positive quantity is rejected.
	l.Paid[0] = PaidLine{ProductID: idPtr(1)}
	assert.ErrorIs(t, l.ValidatePaid(false), ErrPaidLineEmpty)

	l.Paid[0].Quantity = 2
	assert.NoError(t, l.ValidatePaid(false))
}

func TestActiveLinesDropBlanks(t *testing.T) {
	l := NewLedger()
	l.AddBiocidalLine()
	l.Biocidal[1] = BiocidalLine{ProductID: idPtr(1), Quantity: "0.5", Unit: "ml"}
	l.AddPaidLine()
	l.Paid[1] = PaidLine{ProductID: idPtr(2), Quantity: 4}

	biocidal := l.ActiveBiocidal()
	require.Len(t, biocidal, 1)
	assert.Equal(t, "0.5", biocidal[0].Quantity)

	paid := l.ActivePaid()
	require.Len(t, paid, 1)
	assert.Equal(t, float64(4), paid[0].Quantity)
}
