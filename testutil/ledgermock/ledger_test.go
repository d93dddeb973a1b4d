package ledgermock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

const tmpl = ledger.TemplateID("#test:Main:Thing")

type thing struct {
	Owner ledger.Party `json:"owner"`
	Label string       `json:"label"`
}

func TestCreateVisibilityAndOffsets(t *testing.T) {
	ctx := context.Background()
	l := New()
	alice, bob, carol := Party("alice"), Party("bob"), Party("carol")

	tx, err := l.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{alice},
		Commands: []ledger.Command{ledger.NewCreate(tmpl, thing{Owner: bob, Label: "x"})},
	})
	require.NoError(t, err)
	created := tx.Created(tmpl)
	require.Len(t, created, 1)
	require.Equal(t, []ledger.Party{alice}, created[0].Signatories)
	require.Equal(t, []ledger.Party{bob}, created[0].Observers)

	end, err := l.LedgerEnd(ctx)
	require.NoError(t, err)
	require.Equal(t, ledger.Offset(1), end)

	for party, want := range map[ledger.Party]int{alice: 1, bob: 1, carol: 0} {
		entries, err := l.ActiveContracts(ctx, ledger.ActiveContractsQuery{
			TemplateIDs: []ledger.TemplateID{tmpl}, FilterByParty: true, Parties: []ledger.Party{party}, Offset: end,
		})
		require.NoError(t, err)
		require.Len(t, entries, want, party)
	}

	// reads at an older offset still see the archived contract
	require.True(t, l.Archive(created[0].ContractID))
	entries, err := l.ActiveContracts(ctx, ledger.ActiveContractsQuery{TemplateIDs: []ledger.TemplateID{tmpl}, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entries, err = l.ActiveContracts(ctx, ledger.ActiveContractsQuery{TemplateIDs: []ledger.TemplateID{tmpl}, Offset: 2})
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = l.ActiveContracts(ctx, ledger.ActiveContractsQuery{Offset: 99})
	require.Error(t, err)
}

func TestExerciseDefaultsToConsuming(t *testing.T) {
	ctx := context.Background()
	l := New()
	alice := Party("alice")
	cid := l.Seed(tmpl, thing{Owner: alice}, alice)

	tx, err := l.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{alice},
		Commands: []ledger.Command{ledger.NewExercise(tmpl, cid, "Thing_Decline", nil)},
	})
	require.NoError(t, err)
	require.True(t, tx.Archived(cid))
	require.False(t, l.IsActive(cid))

	_, err = l.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{alice},
		Commands: []ledger.Command{ledger.NewExercise(tmpl, cid, "Thing_Decline", nil)},
	})
	require.ErrorIs(t, err, ledger.ErrContractNotFound)
	require.Equal(t, []string{"Thing_Decline", "Thing_Decline"}, l.Exercised())
}

func TestExerciseRequiresVisibility(t *testing.T) {
	l := New()
	cid := l.Seed(tmpl, thing{Owner: Party("alice")}, Party("alice"))

	_, err := l.Submit(context.Background(), ledger.Commands{
		ActAs:    []ledger.Party{Party("mallory")},
		Commands: []ledger.Command{ledger.NewExercise(tmpl, cid, "Thing_Accept", nil)},
	})
	require.ErrorIs(t, err, ledger.ErrContractNotFound)
	require.True(t, l.IsActive(cid))
}

func TestSubmissionIsAtomic(t *testing.T) {
	ctx := context.Background()
	l := New()
	alice := Party("alice")
	cid := l.Seed(tmpl, thing{Owner: alice}, alice)

	l.OnChoice("Thing_Accept", func(ex *Exercise) error {
		if _, err := ex.Create(tmpl, thing{Owner: alice, Label: "child"}); err != nil {
			return err
		}
		return ex.Reject("always fails")
	})

	_, err := l.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{alice},
		Commands: []ledger.Command{ledger.NewExercise(tmpl, cid, "Thing_Accept", nil)},
	})
	require.ErrorIs(t, err, ledger.ErrCommandRejected)
	require.True(t, l.IsActive(cid))
	require.Len(t, l.Active(tmpl), 1)

	end, err := l.LedgerEnd(ctx)
	require.NoError(t, err)
	require.Equal(t, ledger.Offset(1), end)
}

func TestNonConsumingChoice(t *testing.T) {
	l := New()
	alice := Party("alice")
	cid := l.Seed(tmpl, thing{Owner: alice}, alice)

	var label string
	l.OnNonConsumingChoice("Thing_Relabel", func(ex *Exercise) error {
		var arg struct {
			Label string `json:"label"`
		}
		if err := ex.Argument(&arg); err != nil {
			return err
		}
		label = arg.Label
		return nil
	})

	_, err := l.Submit(context.Background(), ledger.Commands{
		ActAs:    []ledger.Party{alice},
		Commands: []ledger.Command{ledger.NewExercise(tmpl, cid, "Thing_Relabel", map[string]string{"label": "new"})},
	})
	require.NoError(t, err)
	require.Equal(t, "new", label)
	require.True(t, l.IsActive(cid))
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	l := New()
	boom := errors.New("boom")

	l.FailQuery = func(ledger.ActiveContractsQuery) error { return boom }
	_, err := l.ActiveContracts(ctx, ledger.ActiveContractsQuery{})
	require.ErrorIs(t, err, boom)

	l.FailQuery = nil
	l.EmptyEntries = 2
	entries, err := l.ActiveContracts(ctx, ledger.ActiveContractsQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Nil(t, entries[0].Active)

	l.FailSubmit = func(ledger.Commands) error { return boom }
	_, err = l.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{Party("alice")},
		Commands: []ledger.Command{ledger.NewCreate(tmpl, thing{})},
	})
	require.ErrorIs(t, err, boom)
	require.Empty(t, l.Active(tmpl))
	require.Len(t, l.Submissions(), 1)
	require.Len(t, l.Queries(), 2)
}

func TestAllocateParty(t *testing.T) {
	p, err := New().AllocateParty(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, Party("alice"), p)
	require.NoError(t, ledger.ValidateParty(p))
}
