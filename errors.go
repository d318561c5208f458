/*
 * errors.go, part of rmsds.
 *
 * Copyright 2026 Daniel Barriga
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package rmsds

import "fmt"

// InputError reports bad input to the engine: a zero-atom selection, a
// frame whose atom count differs from the rest of the run, or a trajectory
// that cannot be seeked to a requested frame. It is always fatal.
type InputError struct {
	message string
	deco    []string
}

// NewInputError returns an InputError with the given message.
func NewInputError(format string, a ...interface{}) *InputError {
	return &InputError{message: fmt.Sprintf(format, a...)}
}

func (err *InputError) Error() string { return err.message }

// Decorate adds dec to the decoration slice of the error and returns the
// resulting slice. An empty string only retrieves the current decorations.
func (err *InputError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical is always true for an InputError.
func (err *InputError) Critical() bool { return true }

// NumericalError reports a failure of the 3x3 decomposition backing the
// superposition kernel. Code carries the diagnostic value of the underlying
// routine. It is always fatal.
type NumericalError struct {
	Code    int
	message string
	deco    []string
}

// NewNumericalError returns a NumericalError with the given diagnostic code.
func NewNumericalError(code int, format string, a ...interface{}) *NumericalError {
	return &NumericalError{Code: code, message: fmt.Sprintf(format, a...)}
}

func (err *NumericalError) Error() string {
	return fmt.Sprintf("%s (code %d)", err.message, err.Code)
}

// Decorate adds dec to the decoration slice of the error and returns the
// resulting slice. An empty string only retrieves the current decorations.
func (err *NumericalError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical is always true for a NumericalError.
func (err *NumericalError) Critical() bool { return true }

// ResourceWarning reports that the estimated memory footprint of a
// materialized coordinate cache exceeds the configured fraction of the
// physical memory. It is not fatal: the run proceeds, but the caller may
// want to switch the cache to streaming mode.
type ResourceWarning struct {
	Estimated uint64  //bytes the cache will need
	Physical  uint64  //bytes of physical memory detected
	Fraction  float64 //the configured warning threshold
	deco      []string
}

func (err *ResourceWarning) Error() string {
	return fmt.Sprintf("coordinate cache needs an estimated %d bytes, over %.0f%% of the %d bytes of physical memory; consider streaming mode",
		err.Estimated, err.Fraction*100, err.Physical)
}

// Decorate adds dec to the decoration slice of the error and returns the
// resulting slice. An empty string only retrieves the current decorations.
func (err *ResourceWarning) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical is always false for a ResourceWarning.
func (err *ResourceWarning) Critical() bool { return false }

// errDecorate asserts that err implements Error and decorates it with the
// caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
