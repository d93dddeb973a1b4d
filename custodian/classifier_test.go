package custodian_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

func createdEvent(t testing.TB, cid ledger.ContractID, tid ledger.TemplateID, payload any) *ledger.CreatedEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &ledger.CreatedEvent{ContractID: cid, TemplateID: tid, CreateArgument: raw}
}

func TestKindOfWatchedTemplates(t *testing.T) {
	tests := []struct {
		templateID ledger.TemplateID
		want       custodian.Kind
	}{
		{tokentypes.MintRequestTemplateID, custodian.KindIssuerMint},
		{tokentypes.TransferRequestTemplateID, custodian.KindTransfer},
		{tokentypes.BurnRequestTemplateID, custodian.KindIssuerBurn},
		{bondtypes.MintRequestTemplateID, custodian.KindBondIssuerMint},
		{bondtypes.TransferRequestTemplateID, custodian.KindBondTransfer},
		{bondtypes.LifecycleClaimRequestTemplateID, custodian.KindBondLifecycleClaim},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			kind, ok := custodian.KindOf(tt.templateID)
			require.True(t, ok)
			require.Equal(t, tt.want, kind)
		})
	}
	require.Len(t, custodian.WatchedTemplates(), len(tests))
}

func TestKindOfIsTotal(t *testing.T) {
	watched := make(map[ledger.TemplateID]bool)
	for _, tid := range custodian.WatchedTemplates() {
		watched[tid] = true
	}

	rapid.Check(t, func(t *rapid.T) {
		tid := ledger.TemplateID(rapid.OneOf(
			rapid.String(),
			rapid.SampledFrom([]string{
				string(tokentypes.MintRequestTemplateID) + " ",
				string(tokentypes.HoldingTemplateID),
				"#minimal-token:MyToken.IssuerMintRequest",
			}),
		).Draw(t, "template"))

		kind, ok := custodian.KindOf(tid)
		if watched[tid] {
			if !ok || kind == custodian.KindUnknown {
				t.Fatalf("watched template %q classified as unknown", tid)
			}
			return
		}
		if ok || kind != custodian.KindUnknown {
			t.Fatalf("template %q classified as %s", tid, kind)
		}
	})
}

func TestClassify(t *testing.T) {
	issuer := ledger.Party("issuer::1220aa")
	alice := ledger.Party("alice::1220bb")

	req, err := custodian.Classify(createdEvent(t, "c1", tokentypes.MintRequestTemplateID, tokentypes.IssuerMintRequest{
		Issuer: issuer, Receiver: alice, InstrumentID: "USDC", Amount: ledger.NewNumeric(5),
	}))
	require.NoError(t, err)
	mint, ok := req.(custodian.IssuerMint)
	require.True(t, ok)
	require.Equal(t, ledger.ContractID("c1"), mint.ContractID())
	require.Equal(t, alice, mint.Receiver)
	require.Equal(t, "5.0", mint.Amount.String())

	req, err = custodian.Classify(createdEvent(t, "c2", bondtypes.LifecycleClaimRequestTemplateID, bondtypes.LifecycleClaimRequest{
		Issuer: issuer, Holder: alice, EffectCid: "e1", BondHoldingCid: "b1",
	}))
	require.NoError(t, err)
	claim, ok := req.(custodian.BondLifecycleClaim)
	require.True(t, ok)
	require.Equal(t, custodian.KindBondLifecycleClaim, claim.Kind())
	require.Equal(t, alice, claim.Holder)

	_, err = custodian.Classify(&ledger.CreatedEvent{
		ContractID: "c3", TemplateID: tokentypes.TransferRequestTemplateID, CreateArgument: json.RawMessage(`[1,2]`),
	})
	require.ErrorIs(t, err, custodian.ErrInvalidPayload)

	_, err = custodian.Classify(createdEvent(t, "c4", tokentypes.HoldingTemplateID, struct{}{}))
	require.ErrorIs(t, err, custodian.ErrUnknownTemplate)
}

func TestProcessedSet(t *testing.T) {
	s := custodian.NewProcessedSet()
	require.False(t, s.Contains("c1"))

	s.Add("c1")
	s.Add("c1")
	require.True(t, s.Contains("c1"))
	require.False(t, s.Contains("c2"))
	require.Equal(t, 1, s.Len())
}
