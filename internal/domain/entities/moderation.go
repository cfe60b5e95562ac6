package entities

import "fmt"

// Operation is an access operation on a revision.
type Operation string

const (
	OperationView   Operation = "view"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// ParseOperation validates and converts a string to Operation.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OperationView, OperationUpdate, OperationDelete:
		return Operation(s), nil
	case "revert":
		return OperationUpdate, nil
	default:
		return "", fmt.Errorf("invalid operation: %s (valid: view, update, revert, delete)", s)
	}
}

// SubmitAction is the submit button chosen on the edit form.
type SubmitAction string

const (
	ActionSaveAsDraft      SubmitAction = "save-as-draft"
	ActionSaveAndPublish   SubmitAction = "save-and-publish"
	ActionSaveAndUnpublish SubmitAction = "save-and-unpublish"
	ActionSaveDefault      SubmitAction = "save-default"
)

// AllSubmitActions lists every submit action in button order.
var AllSubmitActions = []SubmitAction{
	ActionSaveAsDraft,
	ActionSaveDefault,
	ActionSaveAndPublish,
	ActionSaveAndUnpublish,
}

// ParseSubmitAction validates and converts a string to SubmitAction. The short
// forms draft, publish, unpublish and save are accepted.
func ParseSubmitAction(s string) (SubmitAction, error) {
	switch s {
	case "draft", string(ActionSaveAsDraft):
		return ActionSaveAsDraft, nil
	case "publish", string(ActionSaveAndPublish):
		return ActionSaveAndPublish, nil
	case "unpublish", string(ActionSaveAndUnpublish):
		return ActionSaveAndUnpublish, nil
	case "save", string(ActionSaveDefault):
		return ActionSaveDefault, nil
	default:
		return "", fmt.Errorf("invalid submit action: %s (valid: draft, publish, unpublish, save)", s)
	}
}

// Publishes reports whether the action publishes the new revision.
func (a SubmitAction) Publishes() bool {
	return a == ActionSaveAndPublish
}

// RevisionState labels a revision relative to the entity's default.
type RevisionState string

const (
	StateCurrent         RevisionState = "current"
	StateDraft           RevisionState = "draft"
	StateSupersededDraft RevisionState = "superseded draft"
	StateArchived        RevisionState = "archived"
)
