package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
)

const noteTemplateID ledger.TemplateID = "#test:Note:Note"

type note struct {
	Author ledger.Party `json:"author"`
	Reader ledger.Party `json:"reader"`
	Text   string       `json:"text"`
}

var (
	alice = ledgermock.Party("alice")
	bob   = ledgermock.Party("bob")
	carol = ledgermock.Party("carol")
)

func TestChoiceName(t *testing.T) {
	require.Equal(t, "Note_Accept", shared.ChoiceName(noteTemplateID, shared.ActionAccept))
	require.Equal(t, "Note_Withdraw", shared.ChoiceName(noteTemplateID, shared.ActionWithdraw))
}

func TestCreateAndQuery(t *testing.T) {
	l := ledgermock.New()
	ctx := t.Context()

	created, err := shared.Create(ctx, l, alice, noteTemplateID, note{Author: alice, Reader: bob, Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hi", created.Payload.Text)

	// signatory and observer see it, others do not
	for _, p := range []ledger.Party{alice, bob} {
		found, err := shared.Query[note](ctx, l, p, noteTemplateID, nil)
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, created, found[0])
	}
	found, err := shared.Query[note](ctx, l, carol, noteTemplateID, nil)
	require.NoError(t, err)
	require.Empty(t, found)

	got, err := shared.Get[note](ctx, l, bob, noteTemplateID, created.ContractID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = shared.Get[note](ctx, l, bob, noteTemplateID, "cid-missing")
	require.ErrorIs(t, err, ledger.ErrContractNotFound)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	l := ledgermock.New()
	ctx := t.Context()
	byText := func(n note) bool { return n.Text == "rules" }

	first, err := shared.GetOrCreate(ctx, l, alice, noteTemplateID, byText, note{Author: alice, Text: "rules"})
	require.NoError(t, err)
	second, err := shared.GetOrCreate(ctx, l, alice, noteTemplateID, byText, note{Author: alice, Text: "rules"})
	require.NoError(t, err)

	require.Equal(t, first.ContractID, second.ContractID)
	require.Len(t, l.Submissions(), 1)
}

func TestRequestTemplateLifecycle(t *testing.T) {
	l := ledgermock.New()
	ctx := t.Context()
	notes := shared.NewRequestTemplate[note](noteTemplateID)

	req, err := notes.Create(ctx, l, alice, note{Author: alice, Reader: bob, Text: "please"})
	require.NoError(t, err)

	_, err = notes.Find(ctx, l, bob, func(n note) bool { return n.Text == "please" })
	require.NoError(t, err)

	_, err = notes.Decline(ctx, l, bob, req.ContractID)
	require.NoError(t, err)
	require.False(t, l.IsActive(req.ContractID))
	require.Equal(t, []string{"Note_Decline"}, l.Exercised())

	_, err = notes.Withdraw(ctx, l, alice, req.ContractID)
	require.ErrorIs(t, err, ledger.ErrContractNotFound)
}
