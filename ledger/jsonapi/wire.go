package jsonapi

import (
	"encoding/json"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

type ledgerEndResponse struct {
	Offset int64 `json:"offset"`
}

// ==================== Active contracts ====================

type templateFilterValue struct {
	TemplateID              string `json:"templateId"`
	IncludeCreatedEventBlob bool   `json:"includeCreatedEventBlob"`
}

type identifierFilter struct {
	TemplateFilter struct {
		Value templateFilterValue `json:"value"`
	} `json:"TemplateFilter"`
}

type cumulativeFilter struct {
	IdentifierFilter identifierFilter `json:"identifierFilter"`
}

type partyFilter struct {
	Cumulative []cumulativeFilter `json:"cumulative"`
}

type transactionFilter struct {
	FiltersByParty     map[string]partyFilter `json:"filtersByParty,omitempty"`
	FiltersForAnyParty *partyFilter           `json:"filtersForAnyParty,omitempty"`
}

type activeContractsRequest struct {
	Filter         transactionFilter `json:"filter"`
	Verbose        bool              `json:"verbose"`
	ActiveAtOffset int64             `json:"activeAtOffset"`
}

func newActiveContractsRequest(q ledger.ActiveContractsQuery) activeContractsRequest {
	filter := partyFilter{Cumulative: make([]cumulativeFilter, 0, len(q.TemplateIDs))}
	for _, tid := range q.TemplateIDs {
		var f cumulativeFilter
		f.IdentifierFilter.TemplateFilter.Value = templateFilterValue{TemplateID: string(tid)}
		filter.Cumulative = append(filter.Cumulative, f)
	}

	req := activeContractsRequest{ActiveAtOffset: int64(q.Offset)}
	if q.FilterByParty {
		req.Filter.FiltersByParty = make(map[string]partyFilter, len(q.Parties))
		for _, p := range q.Parties {
			req.Filter.FiltersByParty[string(p)] = filter
		}
	} else {
		req.Filter.FiltersForAnyParty = &filter
	}
	return req
}

type jsCreatedEvent struct {
	ContractID     string          `json:"contractId"`
	TemplateID     string          `json:"templateId"`
	PackageName    string          `json:"packageName"`
	CreateArgument json.RawMessage `json:"createArgument"`
	Signatories    []string        `json:"signatories"`
	Observers      []string        `json:"observers"`
	Offset         int64           `json:"offset"`
}

func (e *jsCreatedEvent) toEvent() *ledger.CreatedEvent {
	return &ledger.CreatedEvent{
		ContractID:     ledger.ContractID(e.ContractID),
		TemplateID:     byPackageName(e.TemplateID, e.PackageName),
		CreateArgument: e.CreateArgument,
		Signatories:    toParties(e.Signatories),
		Observers:      toParties(e.Observers),
		Offset:         ledger.Offset(e.Offset),
	}
}

type activeContractsResponseItem struct {
	ContractEntry struct {
		JsActiveContract *struct {
			CreatedEvent jsCreatedEvent `json:"createdEvent"`
		} `json:"JsActiveContract"`
	} `json:"contractEntry"`
}

func (i activeContractsResponseItem) toEntry() ledger.ContractEntry {
	if i.ContractEntry.JsActiveContract == nil {
		return ledger.ContractEntry{}
	}
	return ledger.ContractEntry{Active: i.ContractEntry.JsActiveContract.CreatedEvent.toEvent()}
}

// ==================== Commands ====================

type jsCommand struct {
	CreateCommand   *ledger.CreateCommand   `json:"CreateCommand,omitempty"`
	ExerciseCommand *ledger.ExerciseCommand `json:"ExerciseCommand,omitempty"`
}

type jsCommands struct {
	Commands  []jsCommand `json:"commands"`
	CommandID string      `json:"commandId"`
	UserID    string      `json:"userId"`
	ActAs     []string    `json:"actAs"`
	ReadAs    []string    `json:"readAs,omitempty"`
}

type submitRequest struct {
	Commands jsCommands `json:"commands"`
}

func newSubmitRequest(cmds ledger.Commands, userID string) (submitRequest, error) {
	if len(cmds.ActAs) == 0 {
		return submitRequest{}, errorsmod.Wrap(ledger.ErrInvalidParty, "at least one actAs party is required")
	}
	if len(cmds.Commands) == 0 {
		return submitRequest{}, fmt.Errorf("no commands to submit")
	}

	out := jsCommands{
		Commands:  make([]jsCommand, 0, len(cmds.Commands)),
		CommandID: cmds.CommandID,
		UserID:    userID,
		ActAs:     fromParties(cmds.ActAs),
		ReadAs:    fromParties(cmds.ReadAs),
	}
	for i, cmd := range cmds.Commands {
		switch {
		case cmd.Create != nil && cmd.Exercise == nil:
			out.Commands = append(out.Commands, jsCommand{CreateCommand: cmd.Create})
		case cmd.Exercise != nil && cmd.Create == nil:
			out.Commands = append(out.Commands, jsCommand{ExerciseCommand: cmd.Exercise})
		default:
			return submitRequest{}, fmt.Errorf("command %d must be exactly one of create or exercise", i)
		}
	}
	return submitRequest{Commands: out}, nil
}

type jsArchivedEvent struct {
	ContractID  string `json:"contractId"`
	TemplateID  string `json:"templateId"`
	PackageName string `json:"packageName"`
	Offset      int64  `json:"offset"`
}

// byPackageName rewrites a package-id template id ("<hash>:Module:Entity")
// into the "#<package-name>:Module:Entity" form the workflow templates use.
func byPackageName(templateID, packageName string) ledger.TemplateID {
	if packageName == "" || strings.HasPrefix(templateID, "#") {
		return ledger.TemplateID(templateID)
	}
	_, rest, ok := strings.Cut(templateID, ":")
	if !ok {
		return ledger.TemplateID(templateID)
	}
	return ledger.TemplateID("#" + packageName + ":" + rest)
}

type jsEvent struct {
	CreatedEvent  *jsCreatedEvent  `json:"CreatedEvent,omitempty"`
	ArchivedEvent *jsArchivedEvent `json:"ArchivedEvent,omitempty"`
}

type submitResponse struct {
	Transaction *struct {
		UpdateID string    `json:"updateId"`
		Offset   int64     `json:"offset"`
		Events   []jsEvent `json:"events"`
	} `json:"transaction"`
}

func (r submitResponse) toTransaction() (*ledger.Transaction, error) {
	if r.Transaction == nil {
		return nil, errorsmod.Wrap(ledger.ErrMalformedResponse, "submission returned no transaction")
	}

	tx := &ledger.Transaction{
		UpdateID: r.Transaction.UpdateID,
		Offset:   ledger.Offset(r.Transaction.Offset),
		Events:   make([]ledger.Event, 0, len(r.Transaction.Events)),
	}
	for _, ev := range r.Transaction.Events {
		switch {
		case ev.CreatedEvent != nil:
			tx.Events = append(tx.Events, ledger.Event{Created: ev.CreatedEvent.toEvent()})
		case ev.ArchivedEvent != nil:
			tx.Events = append(tx.Events, ledger.Event{Archived: &ledger.ArchivedEvent{
				ContractID: ledger.ContractID(ev.ArchivedEvent.ContractID),
				TemplateID: byPackageName(ev.ArchivedEvent.TemplateID, ev.ArchivedEvent.PackageName),
				Offset:     ledger.Offset(ev.ArchivedEvent.Offset),
			}})
		}
	}
	return tx, nil
}

// ==================== Parties ====================

type allocatePartyRequest struct {
	PartyIDHint        string `json:"partyIdHint"`
	IdentityProviderID string `json:"identityProviderId"`
}

type allocatePartyResponse struct {
	PartyDetails struct {
		Party string `json:"party"`
	} `json:"partyDetails"`
}

func toParties(in []string) []ledger.Party {
	if len(in) == 0 {
		return nil
	}
	out := make([]ledger.Party, len(in))
	for i, p := range in {
		out[i] = ledger.Party(p)
	}
	return out
}

func fromParties(in []ledger.Party) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = string(p)
	}
	return out
}
