package formbuilder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

var (
	ErrUnknownOp = errors.New("unknown edit operation")
	ErrBadValue  = errors.New("invalid edit value")
)

// Command is the wire form of an Edit, as posted by the admin UI.
type Command struct {
	Op    string `json:"op"`
	Step  int    `json:"step"`
	Field int    `json:"field"`
	To    int    `json:"to"`
	Value string `json:"value"`
}

// Edit resolves the command to an Edit. Building the Edit never applies it.
func (c Command) Edit() (Edit, error) {
	switch c.Op {
	case "setLabel":
		return SetLabel(c.Step, c.Field, c.Value), nil
	case "setName":
		return SetName(c.Step, c.Field, c.Value), nil
	case "setPlaceholder":
		return SetPlaceholder(c.Step, c.Field, c.Value), nil
	case "setType":
		return SetType(c.Step, c.Field, models.FieldType(c.Value)), nil
	case "setOptions":
		return SetOptions(c.Step, c.Field, c.Value), nil
	case "toggleRequired":
		return ToggleRequired(c.Step, c.Field), nil
	case "toggleVisible":
		return ToggleFieldVisible(c.Step, c.Field), nil
	case "deleteField":
		return DeleteField(c.Step, c.Field), nil
	case "moveField":
		return MoveField(c.Step, c.Field, c.To), nil
	case "addField":
		return AddField(c.Step), nil
	case "setTitle":
		return SetStepTitle(c.Step, c.Value), nil
	case "setOrder":
		n, err := strconv.Atoi(c.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: step order %q", ErrBadValue, c.Value)
		}
		return SetStepOrder(c.Step, n), nil
	case "toggleStepVisibility":
		return ToggleStepVisibility(c.Step), nil
	case "deleteStep":
		return DeleteStep(c.Step), nil
	case "moveStep":
		return MoveStep(c.Step, c.To), nil
	case "addStep":
		return AddStep(), nil
	case "setFormName":
		return SetFormName(c.Value), nil
	case "setDescription":
		return SetDescription(c.Value), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, c.Op)
}

// Edits resolves a batch of commands.
func Edits(cmds []Command) ([]Edit, error) {
	out := make([]Edit, 0, len(cmds))
	for i, c := range cmds {
		e, err := c.Edit()
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
