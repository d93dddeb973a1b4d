// Package ledgermock is an in-memory ledger.Client for tests.
//
// Contracts are created with the submitting parties as signatories and every
// top level party-valued field of the create argument as an observer. A
// submission is applied atomically: if any command fails, nothing it did is
// visible afterwards. Choices are consuming unless registered otherwise; a
// choice without a registered handler simply archives the contract.
package ledgermock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// ChoiceFunc implements the effects of a choice.
type ChoiceFunc func(ex *Exercise) error

type choice struct {
	fn        ChoiceFunc
	consuming bool
}

type contract struct {
	event      ledger.CreatedEvent
	archivedAt ledger.Offset
}

func (c contract) activeAt(off ledger.Offset) bool {
	return c.event.Offset <= off && (c.archivedAt == 0 || c.archivedAt > off)
}

// Ledger is a mutex protected in-memory ledger.
type Ledger struct {
	mu        sync.Mutex
	offset    ledger.Offset
	nextID    int
	contracts map[ledger.ContractID]contract
	order     []ledger.ContractID
	choices   map[string]choice

	submissions []ledger.Commands
	queries     []ledger.ActiveContractsQuery

	// FailSubmit, when set, is consulted before every submission. A non-nil
	// error is returned to the caller and nothing is committed.
	FailSubmit func(cmds ledger.Commands) error

	// FailQuery, when set, is consulted before every active contract query.
	FailQuery func(q ledger.ActiveContractsQuery) error

	// EmptyEntries is the number of non-active entries appended to every
	// active contract query result.
	EmptyEntries int
}

var _ ledger.Client = (*Ledger)(nil)

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		contracts: make(map[ledger.ContractID]contract),
		choices:   make(map[string]choice),
	}
}

// OnChoice registers a consuming choice.
func (l *Ledger) OnChoice(name string, fn ChoiceFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.choices[name] = choice{fn: fn, consuming: true}
}

// OnNonConsumingChoice registers a choice that leaves the contract active.
func (l *Ledger) OnNonConsumingChoice(name string, fn ChoiceFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.choices[name] = choice{fn: fn}
}

// LedgerEnd implements ledger.Client.
func (l *Ledger) LedgerEnd(context.Context) (ledger.Offset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.offset, nil
}

// ActiveContracts implements ledger.Client.
func (l *Ledger) ActiveContracts(ctx context.Context, q ledger.ActiveContractsQuery) ([]ledger.ContractEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.queries = append(l.queries, q)
	if l.FailQuery != nil {
		if err := l.FailQuery(q); err != nil {
			return nil, err
		}
	}
	if q.Offset > l.offset {
		return nil, errorsmod.Wrapf(ledger.ErrCommandRejected, "offset %d is beyond ledger end %d", q.Offset, l.offset)
	}

	var out []ledger.ContractEntry
	for _, cid := range l.order {
		c := l.contracts[cid]
		if !c.activeAt(q.Offset) {
			continue
		}
		if len(q.TemplateIDs) > 0 && !slices.Contains(q.TemplateIDs, c.event.TemplateID) {
			continue
		}
		if q.FilterByParty && !visibleTo(c.event, q.Parties) {
			continue
		}
		ev := c.event
		out = append(out, ledger.ContractEntry{Active: &ev})
	}
	for range l.EmptyEntries {
		out = append(out, ledger.ContractEntry{})
	}
	return out, nil
}

// Submit implements ledger.Client. Commands are applied in order and the
// whole submission is rolled back if any of them fails.
func (l *Ledger) Submit(ctx context.Context, cmds ledger.Commands) (*ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(cmds.ActAs) == 0 {
		return nil, errorsmod.Wrap(ledger.ErrInvalidParty, "at least one actAs party is required")
	}
	if cmds.CommandID == "" {
		cmds.CommandID = uuid.NewString()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.submissions = append(l.submissions, cmds)
	if l.FailSubmit != nil {
		if err := l.FailSubmit(cmds); err != nil {
			return nil, err
		}
	}

	snapshot := maps.Clone(l.contracts)
	orderLen, nextID := len(l.order), l.nextID
	rollback := func() {
		l.contracts = snapshot
		l.order = l.order[:orderLen]
		l.nextID = nextID
	}

	tx := &ledger.Transaction{UpdateID: cmds.CommandID, Offset: l.offset + 1}
	readers := append(slices.Clone(cmds.ActAs), cmds.ReadAs...)
	for i, cmd := range cmds.Commands {
		var err error
		switch {
		case cmd.Create != nil && cmd.Exercise == nil:
			_, err = l.create(tx, cmds.ActAs, cmd.Create.TemplateID, cmd.Create.Arguments)
		case cmd.Exercise != nil && cmd.Create == nil:
			err = l.exercise(tx, cmds.ActAs, readers, cmd.Exercise)
		default:
			err = fmt.Errorf("command %d must be exactly one of create or exercise", i)
		}
		if err != nil {
			rollback()
			return nil, err
		}
	}

	l.offset = tx.Offset
	return tx, nil
}

// AllocateParty implements ledger.Client.
func (l *Ledger) AllocateParty(_ context.Context, hint string) (ledger.Party, error) {
	if hint == "" {
		hint = "party-" + uuid.NewString()[:8]
	}
	return Party(hint), nil
}

// Party returns a deterministic party id for hint.
func Party(hint string) ledger.Party {
	sum := sha256.Sum256([]byte(hint))
	return ledger.Party(hint + "::1220" + hex.EncodeToString(sum[:]))
}

// Seed creates a contract outside of any submission, as if another
// participant had created it, and returns its id.
func (l *Ledger) Seed(templateID ledger.TemplateID, args any, signatories ...ledger.Party) ledger.ContractID {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &ledger.Transaction{UpdateID: uuid.NewString(), Offset: l.offset + 1}
	cid, err := l.create(tx, signatories, templateID, args)
	if err != nil {
		panic(err)
	}
	l.offset = tx.Offset
	return cid
}

// Archive archives cid outside of any submission. It reports whether the
// contract was active.
func (l *Ledger) Archive(cid ledger.ContractID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.contracts[cid]
	if !ok || c.archivedAt != 0 {
		return false
	}
	l.offset++
	c.archivedAt = l.offset
	l.contracts[cid] = c
	return true
}

// IsActive reports whether cid is currently active.
func (l *Ledger) IsActive(cid ledger.ContractID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contracts[cid]
	return ok && c.archivedAt == 0
}

// Active returns every currently active contract of templateID.
func (l *Ledger) Active(templateID ledger.TemplateID) []ledger.CreatedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []ledger.CreatedEvent
	for _, cid := range l.order {
		c := l.contracts[cid]
		if c.archivedAt == 0 && c.event.TemplateID == templateID {
			out = append(out, c.event)
		}
	}
	return out
}

// Submissions returns every submission received so far, including failed ones.
func (l *Ledger) Submissions() []ledger.Commands {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.submissions)
}

// Exercised returns the choice names of every exercise command received so far.
func (l *Ledger) Exercised() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, s := range l.submissions {
		for _, cmd := range s.Commands {
			if cmd.Exercise != nil {
				out = append(out, cmd.Exercise.Choice)
			}
		}
	}
	return out
}

// Queries returns every active contract query received so far.
func (l *Ledger) Queries() []ledger.ActiveContractsQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.queries)
}

func (l *Ledger) create(tx *ledger.Transaction, signatories []ledger.Party, templateID ledger.TemplateID, args any) (ledger.ContractID, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", errorsmod.Wrapf(ledger.ErrCommandRejected, "encode %s arguments: %s", templateID.Entity(), err)
	}

	l.nextID++
	cid := ledger.ContractID(fmt.Sprintf("cid-%d", l.nextID))
	ev := ledger.CreatedEvent{
		ContractID:     cid,
		TemplateID:     templateID,
		CreateArgument: raw,
		Signatories:    slices.Clone(signatories),
		Observers:      observersOf(raw, signatories),
		Offset:         tx.Offset,
	}
	l.contracts[cid] = contract{event: ev}
	l.order = append(l.order, cid)
	tx.Events = append(tx.Events, ledger.Event{Created: &ev})
	return cid, nil
}

func (l *Ledger) archive(tx *ledger.Transaction, cid ledger.ContractID) error {
	c, ok := l.contracts[cid]
	if !ok || c.archivedAt != 0 {
		return errorsmod.Wrapf(ledger.ErrContractNotFound, "%s", cid)
	}
	c.archivedAt = tx.Offset
	l.contracts[cid] = c
	tx.Events = append(tx.Events, ledger.Event{Archived: &ledger.ArchivedEvent{
		ContractID: cid,
		TemplateID: c.event.TemplateID,
		Offset:     tx.Offset,
	}})
	return nil
}

func (l *Ledger) exercise(tx *ledger.Transaction, actAs, readers []ledger.Party, cmd *ledger.ExerciseCommand) error {
	c, ok := l.contracts[cmd.ContractID]
	if !ok || c.archivedAt != 0 || !visibleTo(c.event, readers) {
		return errorsmod.Wrapf(ledger.ErrContractNotFound, "%s %s", cmd.TemplateID.Entity(), cmd.ContractID)
	}
	if c.event.TemplateID != cmd.TemplateID {
		return errorsmod.Wrapf(ledger.ErrCommandRejected, "%s is a %s, not a %s", cmd.ContractID, c.event.TemplateID, cmd.TemplateID)
	}

	ch, registered := l.choices[cmd.Choice]
	if !registered {
		ch = choice{consuming: true}
	}
	if ch.consuming {
		if err := l.archive(tx, cmd.ContractID); err != nil {
			return err
		}
	}
	if ch.fn == nil {
		return nil
	}

	arg, err := json.Marshal(cmd.Argument)
	if err != nil {
		return errorsmod.Wrapf(ledger.ErrCommandRejected, "encode %s argument: %s", cmd.Choice, err)
	}
	return ch.fn(&Exercise{
		Contract: c.event,
		Choice:   cmd.Choice,
		ActAs:    actAs,
		argument: arg,
		ledger:   l,
		tx:       tx,
	})
}

// Exercise is the view a ChoiceFunc has of the exercise being applied.
type Exercise struct {
	Contract ledger.CreatedEvent
	Choice   string
	ActAs    []ledger.Party

	argument json.RawMessage
	ledger   *Ledger
	tx       *ledger.Transaction
}

// Payload decodes the exercised contract's create argument.
func (e *Exercise) Payload(v any) error {
	return e.Contract.Decode(v)
}

// Argument decodes the choice argument.
func (e *Exercise) Argument(v any) error {
	if err := json.Unmarshal(e.argument, v); err != nil {
		return errorsmod.Wrapf(ledger.ErrCommandRejected, "%s argument: %s", e.Choice, err)
	}
	return nil
}

// Create creates a contract signed by the exercising parties.
func (e *Exercise) Create(templateID ledger.TemplateID, args any) (ledger.ContractID, error) {
	return e.ledger.create(e.tx, e.ActAs, templateID, args)
}

// Fetch returns an active contract by id.
func (e *Exercise) Fetch(cid ledger.ContractID) (ledger.CreatedEvent, error) {
	c, ok := e.ledger.contracts[cid]
	if !ok || c.archivedAt != 0 {
		return ledger.CreatedEvent{}, errorsmod.Wrapf(ledger.ErrContractNotFound, "%s", cid)
	}
	return c.event, nil
}

// Consume fetches and archives an active contract of templateID.
func (e *Exercise) Consume(templateID ledger.TemplateID, cid ledger.ContractID) (ledger.CreatedEvent, error) {
	ev, err := e.Fetch(cid)
	if err != nil {
		return ledger.CreatedEvent{}, err
	}
	if ev.TemplateID != templateID {
		return ledger.CreatedEvent{}, errorsmod.Wrapf(ledger.ErrCommandRejected, "%s is a %s, not a %s", cid, ev.TemplateID.Entity(), templateID.Entity())
	}
	return ev, e.ledger.archive(e.tx, cid)
}

// Reject fails the exercise with ledger.ErrCommandRejected.
func (e *Exercise) Reject(format string, args ...any) error {
	return errorsmod.Wrapf(ledger.ErrCommandRejected, "%s: %s", e.Choice, fmt.Sprintf(format, args...))
}

func visibleTo(ev ledger.CreatedEvent, parties []ledger.Party) bool {
	for _, p := range parties {
		if slices.Contains(ev.Signatories, p) || slices.Contains(ev.Observers, p) {
			return true
		}
	}
	return false
}

func observersOf(raw json.RawMessage, signatories []ledger.Party) []ledger.Party {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	keys := slices.Sorted(maps.Keys(fields))
	var out []ledger.Party
	for _, k := range keys {
		s, ok := fields[k].(string)
		if !ok || !strings.Contains(s, "::") {
			continue
		}
		p := ledger.Party(s)
		if !slices.Contains(signatories, p) && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
