package gobridge

import (
	"fmt"
	"go/scanner"
	"go/token"
)

// ClassificationError reports a declaration that cannot be bridged,
// anchored at the offending source position.
type ClassificationError struct {
	Pos token.Position
	Msg string
}

func (e *ClassificationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

func errorf(pos token.Position, format string, args ...any) *ClassificationError {
	return &ClassificationError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// diagnostics accumulates every error of a package so one run reports
// them all.
type diagnostics struct {
	list scanner.ErrorList
}

func (d *diagnostics) add(err error) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *ClassificationError:
		d.list.Add(e.Pos, e.Msg)
		return
	case scanner.ErrorList:
		d.list = append(d.list, e...)
		return
	}
	d.list.Add(token.Position{}, err.Error())
}

func (d *diagnostics) err() error {
	if len(d.list) == 0 {
		return nil
	}
	d.list.Sort()
	return d.list
}
