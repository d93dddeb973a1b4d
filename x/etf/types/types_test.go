package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

func TestCompositionValidateBasic(t *testing.T) {
	comp := Composition{
		Owner: "issuer::1220aa",
		Name:  "Stable basket",
		Items: []PortfolioItem{
			{InstrumentID: "USDC", Weight: ledger.MustParseNumeric("0.5")},
			{InstrumentID: "EURC", Weight: ledger.MustParseNumeric("0.5")},
		},
	}
	require.NoError(t, comp.ValidateBasic())

	zero := comp
	zero.Items = []PortfolioItem{{InstrumentID: "USDC", Weight: ledger.ZeroNumeric()}}
	require.ErrorIs(t, zero.ValidateBasic(), ErrInvalidComposition)

	dup := comp
	dup.Items = []PortfolioItem{comp.Items[0], comp.Items[0]}
	require.ErrorIs(t, dup.ValidateBasic(), ErrInvalidComposition)

	empty := comp
	empty.Items = nil
	require.ErrorIs(t, empty.ValidateBasic(), ErrInvalidComposition)
}

func TestCompositionRequired(t *testing.T) {
	comp := Composition{Items: []PortfolioItem{
		{InstrumentID: "USDC", Weight: ledger.MustParseNumeric("0.25")},
		{InstrumentID: "EURC", Weight: ledger.NewNumeric(2)},
	}}

	req := comp.Required(ledger.NewNumeric(10))
	require.Equal(t, "2.5", req["USDC"].String())
	require.Equal(t, "20.0", req["EURC"].String())
}
