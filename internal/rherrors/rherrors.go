// Package rherrors implements the closed error taxonomy of §7: the core
// surfaces exactly these seven error kinds, never a bare error wrapping an
// implementation detail, so callers can switch on errors.As.
package rherrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// BadNetlist reports a netlist validation failure (§4.3).
type BadNetlist struct {
	Kind    string
	Details string
}

func (e *BadNetlist) Error() string {
	return fmt.Sprintf("bad netlist (%s): %s", e.Kind, e.Details)
}

func NewBadNetlist(kind, format string, args ...any) error {
	return &BadNetlist{Kind: kind, Details: fmt.Sprintf(format, args...)}
}

// BadTile reports a library tile load failure (§6).
type BadTile struct {
	Path  string
	Field string
}

func (e *BadTile) Error() string {
	return fmt.Sprintf("bad tile %q: missing or invalid field %q", e.Path, e.Field)
}

func NewBadTile(path, field string) error {
	return &BadTile{Path: path, Field: field}
}

// Infeasible reports that the placement engine could not seed a valid
// initial state for instanceID (§4.6).
type Infeasible struct {
	InstanceID string
}

func (e *Infeasible) Error() string {
	return fmt.Sprintf("infeasible: could not place instance %q", e.InstanceID)
}

func NewInfeasible(instanceID string) error {
	return &Infeasible{InstanceID: instanceID}
}

// NoPathReason enumerates the router's failure reasons (§4.5).
type NoPathReason string

const (
	ReasonUnreachable NoPathReason = "unreachable"
	ReasonBlocked     NoPathReason = "blocked"
	ReasonOverBudget  NoPathReason = "over_budget"
)

// NoPath reports that the router could not connect a network's driver and
// sinks (§4.5).
type NoPath struct {
	NetworkID string
	Reason    NoPathReason
}

func (e *NoPath) Error() string {
	return fmt.Sprintf("no path for network %q: %s", e.NetworkID, e.Reason)
}

func NewNoPath(networkID string, reason NoPathReason) error {
	return &NoPath{NetworkID: networkID, Reason: reason}
}

// Unroutable reports that assembly gave up on networkID per the
// on_unroutable=abort policy (§4.7).
type Unroutable struct {
	NetworkID string
}

func (e *Unroutable) Error() string {
	return fmt.Sprintf("unroutable: network %q", e.NetworkID)
}

func NewUnroutable(networkID string) error {
	return &Unroutable{NetworkID: networkID}
}

// OverBudget reports that a search component exceeded a configured cap
// (§5).
type OverBudget struct {
	Component string
}

func (e *OverBudget) Error() string {
	return fmt.Sprintf("over budget: %s", e.Component)
}

func NewOverBudget(component string) error {
	return &OverBudget{Component: component}
}

// InternalErr reports an invariant violation: a bug, never recovered (§7).
// It carries a stack trace via github.com/pkg/errors so a panic-free
// failure still leaves a trail back to the violated invariant.
type InternalErr struct {
	Msg   string
	stack error
}

func (e *InternalErr) Error() string {
	return fmt.Sprintf("internal: %s", e.Msg)
}

func (e *InternalErr) Unwrap() error {
	return e.stack
}

func Internal(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &InternalErr{Msg: msg, stack: errors.New(msg)}
}

// WrapInternal wraps err as an Internal error, preserving its stack trace.
func WrapInternal(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &InternalErr{Msg: msg, stack: errors.Wrap(err, msg)}
}
