// Package ledger defines the data model shared by every component that talks to
// the distributed ledger: parties, contract and template identifiers, offsets,
// commands and the events a submitted transaction produces.
//
// Nothing in this package implements ledger semantics. Contract lifecycle,
// authorization and synchronization all live behind the Client interface.
package ledger

import (
	"encoding/json"
	"strings"
)

// Party is a ledger identity, e.g. "custodian::1220ab..".
type Party string

func (p Party) String() string { return string(p) }

// Hint returns the human readable part of the party id.
func (p Party) Hint() string {
	hint, _, _ := strings.Cut(string(p), "::")
	return hint
}

// ContractID identifies one contract instance on the ledger.
type ContractID string

func (c ContractID) String() string { return string(c) }

// TemplateID names a contract schema, "#package-name:Module.Path:Entity" or
// "packageId:Module.Path:Entity".
type TemplateID string

func (t TemplateID) String() string { return string(t) }

// Entity returns the last segment of the template id.
func (t TemplateID) Entity() string {
	s := string(t)
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Offset is a monotonic read position on the ledger.
type Offset int64

// CreatedEvent is a contract as it was created.
type CreatedEvent struct {
	ContractID     ContractID      `json:"contractId"`
	TemplateID     TemplateID      `json:"templateId"`
	CreateArgument json.RawMessage `json:"createArgument"`
	Signatories    []Party         `json:"signatories,omitempty"`
	Observers      []Party         `json:"observers,omitempty"`
	Offset         Offset          `json:"offset"`
}

// Decode unmarshals the create argument into v.
func (e *CreatedEvent) Decode(v any) error {
	return json.Unmarshal(e.CreateArgument, v)
}

// ArchivedEvent marks a contract as no longer active.
type ArchivedEvent struct {
	ContractID ContractID `json:"contractId"`
	TemplateID TemplateID `json:"templateId"`
	Offset     Offset     `json:"offset"`
}

// ContractEntry is one row of an active contract query. Active is nil when the
// ledger reported something other than an active contract (an empty entry or an
// incomplete reassignment).
type ContractEntry struct {
	Active *CreatedEvent
}

// ActiveContractsQuery selects contracts visible to a set of parties.
type ActiveContractsQuery struct {
	TemplateIDs   []TemplateID
	FilterByParty bool
	Parties       []Party
	Offset        Offset
}

// CreateCommand creates a contract of TemplateID with the given arguments.
type CreateCommand struct {
	TemplateID TemplateID `json:"templateId"`
	Arguments  any        `json:"createArguments"`
}

// ExerciseCommand exercises Choice on an active contract.
type ExerciseCommand struct {
	TemplateID TemplateID `json:"templateId"`
	ContractID ContractID `json:"contractId"`
	Choice     string     `json:"choice"`
	Argument   any        `json:"choiceArgument"`
}

// Command is exactly one of Create or Exercise.
type Command struct {
	Create   *CreateCommand
	Exercise *ExerciseCommand
}

// NewCreate builds a create command.
func NewCreate(templateID TemplateID, args any) Command {
	return Command{Create: &CreateCommand{TemplateID: templateID, Arguments: args}}
}

// NewExercise builds an exercise command. A nil argument is sent as an empty record.
func NewExercise(templateID TemplateID, contractID ContractID, choice string, arg any) Command {
	if arg == nil {
		arg = struct{}{}
	}
	return Command{Exercise: &ExerciseCommand{
		TemplateID: templateID,
		ContractID: contractID,
		Choice:     choice,
		Argument:   arg,
	}}
}

// Commands is one atomic submission.
type Commands struct {
	CommandID string
	ActAs     []Party
	ReadAs    []Party
	Commands  []Command
}

// Event is exactly one of Created or Archived.
type Event struct {
	Created  *CreatedEvent
	Archived *ArchivedEvent
}

// Transaction is the committed result of a submission.
type Transaction struct {
	UpdateID string
	Offset   Offset
	Events   []Event
}

// Created returns the created events of the given template, in event order.
func (tx *Transaction) Created(templateID TemplateID) []CreatedEvent {
	if tx == nil {
		return nil
	}
	var out []CreatedEvent
	for _, ev := range tx.Events {
		if ev.Created != nil && ev.Created.TemplateID == templateID {
			out = append(out, *ev.Created)
		}
	}
	return out
}

// Archived reports whether the transaction archived the contract.
func (tx *Transaction) Archived(contractID ContractID) bool {
	if tx == nil {
		return false
	}
	for _, ev := range tx.Events {
		if ev.Archived != nil && ev.Archived.ContractID == contractID {
			return true
		}
	}
	return false
}
