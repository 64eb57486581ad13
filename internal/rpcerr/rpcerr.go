// Package rpcerr defines the JSON-RPC 2.0 error taxonomy shared by the
// dispatcher and the key-scan HTTP handlers.
package rpcerr

import (
	"errors"
	"fmt"
)

// Code is a JSON-RPC 2.0 error code.
type Code int

// Standard JSON-RPC 2.0 error codes, plus the -32000 "generic" extension
// this gateway uses to wrap arbitrary command-execution failures.
const (
	ParseError     Code = -32700
	InvalidRequest Code = -32600
	MethodNotFound Code = -32601
	InvalidParams  Code = -32602
	InternalError  Code = -32603
	Generic        Code = -32000
)

func (c Code) String() string {
	switch c {
	case ParseError:
		return "Invalid JSON was received"
	case InvalidRequest:
		return "Invalid request"
	case MethodNotFound:
		return "Method not found"
	case InvalidParams:
		return "Invalid params"
	case InternalError:
		return "Internal error"
	case Generic:
		return "Generic error"
	default:
		return "Unknown error"
	}
}

// Error is a JSON-RPC 2.0 error, satisfying the standard error interface
// so it can travel through ordinary Go error-handling paths and still be
// serialized into a wire-format response by the dispatcher.
type Error struct {
	Code    Code
	Message string
	Data    any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Message
}

// New builds an Error with an explicit message, falling back to the
// code's canonical message when msg is empty.
func New(code Code, msg string, data any) *Error {
	if msg == "" {
		msg = code.String()
	}
	return &Error{Code: code, Message: msg, Data: data}
}

// Newf is New with a formatted message.
func Newf(code Code, data any, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...), data)
}

// AsError converts an arbitrary error into an *Error, preserving it
// unchanged if it already is one. Anything else becomes a Generic error
// whose message is the stringified original, mirroring the source
// implementation's repr(exception) behavior for uncaught failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return New(Generic, err.Error(), nil)
}
