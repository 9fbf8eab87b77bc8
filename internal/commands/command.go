package commands

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeEdit   Type = "edit"
	TypeDone   Type = "done"
	TypeReopen Type = "reopen"
	TypeFocus  Type = "focus"
	TypeSkip   Type = "skip"
	TypeReset  Type = "reset"
	TypeAck    Type = "ack"
)

// TargetSelected refers to the task highlighted in the task list.
const TargetSelected = "selected"

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries the title and an optional @YYYY-MM-DD date token.
type AddArgs struct {
	Title string
	Date  string
}

// EditArgs names the task first, then an optional new title and @date.
// Empty fields are left unchanged.
type EditArgs struct {
	Target string
	Title  string
	Date   string
}

type TargetArgs struct {
	Target string
}

type ResetArgs struct {
	Session bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Target *TargetArgs
	Reset  *ResetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeDone, TypeReopen, TypeFocus:
		return parseTarget(input, Type(head), args)
	case TypeSkip, TypeAck:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeReset:
		return parseReset(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title, date, err := splitTitleDate(args)
	if err != nil {
		return Command{}, err
	}
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Date: date}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "usage: edit <id|selected> [title] [@YYYY-MM-DD]"}
	}
	title, date, err := splitTitleDate(args[1:])
	if err != nil {
		return Command{}, err
	}
	if title == "" && date == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a new title or @date"}
	}
	target := strings.ToLower(args[0])
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Target: target, Title: title, Date: date}}, nil
}

// splitTitleDate separates an @YYYY-MM-DD token from the title words.
func splitTitleDate(args []string) (string, string, error) {
	words := make([]string, 0, len(args))
	date := ""
	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			day := strings.TrimPrefix(arg, "@")
			if _, err := time.Parse("2006-01-02", day); err != nil {
				return "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid date %q, want @YYYY-MM-DD", day)}
			}
			date = day
			continue
		}
		words = append(words, arg)
	}
	return strings.TrimSpace(strings.Join(words, " ")), date, nil
}

// parseTarget reads an optional task id; without one the command applies
// to the selected task.
func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes at most one task id", typ)}
	}
	target := TargetSelected
	if len(args) == 1 {
		target = strings.ToLower(args[0])
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: target}}, nil
}

func parseReset(raw string, args []string) (Command, error) {
	switch {
	case len(args) == 0:
		return Command{Type: TypeReset, Raw: raw, Reset: &ResetArgs{}}, nil
	case len(args) == 1 && strings.EqualFold(args[0], "session"):
		return Command{Type: TypeReset, Raw: raw, Reset: &ResetArgs{Session: true}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "usage: reset [session]"}
	}
}
