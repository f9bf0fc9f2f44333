// Package merrors carries the rejection taxonomy of the market state
// engine. A non-fatal error is a validation failure: the operation is
// rejected, and the block containing it is invalid. A fatal error
// signals an internal arithmetic or data-model invariant violation and
// must abort processing altogether.
package merrors

import (
	"fmt"

	"golang.org/x/xerrors"
)

type RetCode uint8

const (
	// Ok is never carried by an error; it exists so that retcodes
	// reported upward are unambiguous.
	Ok RetCode = iota
	// Rejected is a generic precondition failure.
	Rejected
	// NotFound means a referenced entity id has no state entry.
	NotFound
	// Unauthorized means the actor lacks the required privilege.
	Unauthorized
	// NoPriceFeed means an asset conversion had no published feed.
	NoPriceFeed
)

type MarketError interface {
	error
	IsFatal() bool
	RetCode() RetCode
}

type marketError struct {
	fatal   bool
	retCode RetCode

	msg   string
	frame xerrors.Frame

	err error
}

func (m *marketError) IsFatal() bool {
	return m.fatal
}

func (m *marketError) RetCode() RetCode {
	return m.retCode
}

func (m *marketError) Error() string {
	var s string
	if m.fatal {
		s = m.msg + " (FATAL)"
	} else {
		s = fmt.Sprintf("%s (RetCode=%d)", m.msg, m.retCode)
	}
	if m.err != nil {
		s += ": " + m.err.Error()
	}
	return s
}

func (m *marketError) Format(s fmt.State, v rune) {
	xerrors.FormatError(m, s, v)
}

func (m *marketError) FormatError(p xerrors.Printer) (next error) {
	p.Print(m.msg)
	if m.fatal {
		p.Print(" (FATAL)")
	} else {
		p.Printf(" (RetCode=%d)", m.retCode)
	}
	m.frame.Format(p)
	return m.err
}

func (m *marketError) Unwrap() error {
	return m.err
}

// New rejects an operation with the given retcode.
func New(retCode RetCode, message string) MarketError {
	if retCode == Ok {
		return &marketError{
			fatal:   true,
			retCode: 0,
			msg:     "tried creating an error with retcode Ok",
			frame:   xerrors.Caller(1),
		}
	}
	return &marketError{
		retCode: retCode,
		msg:     message,
		frame:   xerrors.Caller(1),
	}
}

func Newf(retCode RetCode, format string, args ...interface{}) MarketError {
	if retCode == Ok {
		return &marketError{
			fatal:   true,
			retCode: 0,
			msg:     "tried creating an error with retcode Ok",
			frame:   xerrors.Caller(1),
		}
	}
	return &marketError{
		retCode: retCode,
		msg:     fmt.Sprintf(format, args...),
		frame:   xerrors.Caller(1),
	}
}

// Fatal marks an internal invariant violation; the caller must treat
// the whole state as suspect, not just the current operation.
func Fatal(message string) MarketError {
	return &marketError{
		fatal: true,
		msg:   message,
		frame: xerrors.Caller(1),
	}
}

func Fatalf(format string, args ...interface{}) MarketError {
	return &marketError{
		fatal: true,
		msg:   fmt.Sprintf(format, args...),
		frame: xerrors.Caller(1),
	}
}

// Wrap extends the chain of errors, keeping the inner retcode and
// fatality.
func Wrap(err MarketError, message string) MarketError {
	if err == nil {
		return nil
	}
	return &marketError{
		fatal:   err.IsFatal(),
		retCode: err.RetCode(),
		msg:     message,
		frame:   xerrors.Caller(1),
		err:     err,
	}
}

func Wrapf(err MarketError, format string, args ...interface{}) MarketError {
	if err == nil {
		return nil
	}
	return &marketError{
		fatal:   err.IsFatal(),
		retCode: err.RetCode(),
		msg:     fmt.Sprintf(format, args...),
		frame:   xerrors.Caller(1),
		err:     err,
	}
}

// Absorb turns a plain error from a collaborator into a rejection with
// the given retcode.
func Absorb(err error, retCode RetCode, message string) MarketError {
	if err == nil {
		return nil
	}
	return &marketError{
		retCode: retCode,
		msg:     message,
		frame:   xerrors.Caller(1),
		err:     err,
	}
}

// Escalate promotes a collaborator failure to fatal; used when a
// lookup or mutation that must succeed does not.
func Escalate(err error, message string) MarketError {
	if err == nil {
		return nil
	}
	return &marketError{
		fatal: true,
		msg:   message,
		frame: xerrors.Caller(1),
		err:   err,
	}
}

func IsFatal(err MarketError) bool {
	return err != nil && err.IsFatal()
}

func RetCodeOf(err MarketError) RetCode {
	if err == nil {
		return Ok
	}
	return err.RetCode()
}
