package errs

import (
	stderr "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type CodeErrorI interface {
	ECode() int
	EMsg() string
	WithDetail(detail string) CodeError
	error
}

func NewCodeError(code int, msg string) CodeError {
	return CodeError{
		Code: code,
		Msg:  msg,
	}
}

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func (e CodeError) ECode() int   { return e.Code }
func (e CodeError) EMsg() string { return e.Msg }

func (e CodeError) WithDetail(detail string) CodeError {
	var d string
	if e.Detail == "" {
		d = detail
	} else {
		d = e.Detail + ", " + detail
	}
	return CodeError{
		Code:   e.Code,
		Msg:    e.Msg,
		Detail: d,
	}
}

// Wrap attaches a stack to the code error.
func (e CodeError) Wrap() error {
	return errors.WithStack(e)
}

func (e CodeError) WrapMsg(msg string) error {
	return errors.WithStack(e.WithDetail(msg))
}

func (e CodeError) Is(err error) bool {
	var ce CodeError
	if !stderr.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

func (e CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// Code extracts the numeric code from err, or 0 when err carries none.
func Code(err error) int {
	var ce CodeError
	if stderr.As(err, &ce) {
		return ce.Code
	}
	return 0
}

func Wrap(err error) error {
	return errors.WithStack(err)
}

func WrapMsg(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(errors.WithMessage(err, toString(msg, kv)))
}

func New(msg string, kv ...any) error {
	return errors.New(toString(msg, kv))
}

func toString(msg string, kv []any) string {
	if len(kv) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		sb.WriteString(" ")
		sb.WriteString(toStr(kv[i]))
		sb.WriteString("=")
		if i+1 < len(kv) {
			sb.WriteString(toStr(kv[i+1]))
		}
	}
	return sb.String()
}

func toStr(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprint(v)
	}
}
