package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAction is returned by DecodeAction for malformed or invalid input.
var ErrInvalidAction = errors.New("invalid action")

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeAction renders a as {"type": ..., "payload": ...}. Ids minted by
// Prepare are not part of the wire form.
func EncodeAction(a Action) ([]byte, error) {
	var payload any
	switch a := a.(type) {
	case InitProjects:
		payload = a.Projects
	case SetSelectedProject:
		payload = a.ID
	case DeleteProject:
		payload = a.ID
	case ToggleProjectExpand:
		payload = a.ID
	case nil:
		return nil, fmt.Errorf("%w: nil action", ErrInvalidAction)
	default:
		payload = a
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Kind(), err)
	}
	return json.Marshal(envelope{Type: a.Kind(), Payload: raw})
}

// DecodeAction parses an action and validates it. Titles are trimmed and must
// not be empty; estimated times must not be negative. Everything past this
// point trusts its input.
//
// INIT_PROJECTS is rejected: the tree is only ever replaced by a load from
// the record store, never by a client.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	var (
		a   Action
		err error
	)
	switch env.Type {
	case KindInitProjects:
		return nil, fmt.Errorf("%w: %s is load-only", ErrInvalidAction, env.Type)
	case KindSetSelectedProject:
		var id string
		err = unmarshalPayload(env, &id)
		a = SetSelectedProject{ID: id}
	case KindDeleteProject:
		var id string
		err = unmarshalPayload(env, &id)
		a = DeleteProject{ID: id}
	case KindToggleProjectExpand:
		var id string
		err = unmarshalPayload(env, &id)
		a = ToggleProjectExpand{ID: id}
	case KindAddProject:
		a, err = decodeStruct[AddProject](env)
	case KindUpdateProject:
		a, err = decodeStruct[UpdateProject](env)
	case KindAddMainTask:
		a, err = decodeStruct[AddMainTask](env)
	case KindUpdateMainTask:
		a, err = decodeStruct[UpdateMainTask](env)
	case KindDeleteMainTask:
		a, err = decodeStruct[DeleteMainTask](env)
	case KindToggleMainTaskExpand:
		a, err = decodeStruct[ToggleMainTaskExpand](env)
	case KindAddSubtask:
		a, err = decodeStruct[AddSubtask](env)
	case KindUpdateSubtask:
		a, err = decodeStruct[UpdateSubtask](env)
	case KindDeleteSubtask:
		a, err = decodeStruct[DeleteSubtask](env)
	case KindToggleSubtaskComplete:
		a, err = decodeStruct[ToggleSubtaskComplete](env)
	case KindDuplicateMainTask:
		a, err = decodeStruct[DuplicateMainTask](env)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, env.Type)
	}
	if err != nil {
		return nil, err
	}
	return Validate(a)
}

func unmarshalPayload(env envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%w: %s: missing payload", ErrInvalidAction, env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAction, env.Type, err)
	}
	return nil
}

func decodeStruct[T Action](env envelope) (Action, error) {
	var a T
	if err := unmarshalPayload(env, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate normalizes titles and checks the constraints the tree relies on.
func Validate(a Action) (Action, error) {
	var err error
	switch v := a.(type) {
	case AddProject:
		v.Title, err = title(v.Kind(), v.Title)
		a = v
	case UpdateProject:
		v.Title, err = title(v.Kind(), v.Title)
		a = v
	case AddMainTask:
		v.Title, err = title(v.Kind(), v.Title)
		a = v
	case UpdateMainTask:
		v.Title, err = title(v.Kind(), v.Title)
		a = v
	case AddSubtask:
		v.Title, err = title(v.Kind(), v.Title)
		if err == nil {
			err = minutes(v.Kind(), v.EstimatedTime)
		}
		a = v
	case UpdateSubtask:
		v.Title, err = title(v.Kind(), v.Title)
		if err == nil {
			err = minutes(v.Kind(), v.EstimatedTime)
		}
		a = v
	case DuplicateMainTask:
		v.Task.Title, err = title(v.Kind(), v.Task.Title)
		for _, st := range v.Task.Subtasks {
			if err != nil {
				break
			}
			err = minutes(v.Kind(), st.EstimatedTime)
		}
		a = v
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func title(kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s: title is required", ErrInvalidAction, kind)
	}
	return s, nil
}

func minutes(kind string, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %s: estimated time must not be negative", ErrInvalidAction, kind)
	}
	return nil
}
