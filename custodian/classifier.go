package custodian

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// watched lists the request templates in query order.
var watched = []struct {
	templateID ledger.TemplateID
	kind       Kind
}{
	{tokentypes.MintRequestTemplateID, KindIssuerMint},
	{tokentypes.TransferRequestTemplateID, KindTransfer},
	{tokentypes.BurnRequestTemplateID, KindIssuerBurn},
	{bondtypes.MintRequestTemplateID, KindBondIssuerMint},
	{bondtypes.TransferRequestTemplateID, KindBondTransfer},
	{bondtypes.LifecycleClaimRequestTemplateID, KindBondLifecycleClaim},
}

// WatchedTemplates returns the template ids the custodian polls for.
func WatchedTemplates() []ledger.TemplateID {
	out := make([]ledger.TemplateID, len(watched))
	for i, w := range watched {
		out[i] = w.templateID
	}
	return out
}

// KindOf maps a template id to its request kind by exact comparison.
func KindOf(templateID ledger.TemplateID) (Kind, bool) {
	for _, w := range watched {
		if w.templateID == templateID {
			return w.kind, true
		}
	}
	return KindUnknown, false
}

// Classify decodes an active contract into its typed request.
func Classify(ev *ledger.CreatedEvent) (Request, error) {
	kind, ok := KindOf(ev.TemplateID)
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownTemplate, "%s", ev.TemplateID)
	}

	var (
		req Request
		err error
	)
	switch kind {
	case KindIssuerMint:
		r := IssuerMint{ID: ev.ContractID}
		err = ev.Decode(&r.IssuerMintRequest)
		req = r
	case KindTransfer:
		r := Transfer{ID: ev.ContractID}
		err = ev.Decode(&r.TransferRequest)
		req = r
	case KindIssuerBurn:
		r := IssuerBurn{ID: ev.ContractID}
		err = ev.Decode(&r.IssuerBurnRequest)
		req = r
	case KindBondIssuerMint:
		r := BondIssuerMint{ID: ev.ContractID}
		err = ev.Decode(&r.MintRequest)
		req = r
	case KindBondTransfer:
		r := BondTransfer{ID: ev.ContractID}
		err = ev.Decode(&r.TransferRequest)
		req = r
	case KindBondLifecycleClaim:
		r := BondLifecycleClaim{ID: ev.ContractID}
		err = ev.Decode(&r.LifecycleClaimRequest)
		req = r
	}
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidPayload, "%s %s: %s", kind, ev.ContractID, err)
	}
	return req, nil
}
