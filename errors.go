/*
 * errors.go, part of goNMR.
 *
 * Copyright 2016 The goNMR developers
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

package nmr

import "fmt"

//Errors in goNMR come in exactly two kinds. Configuration errors (a bad model/argument
//combination, mismatched slice shapes, a wrong arity) are returned as *ParamError values
//before any numeric work starts. Numeric degeneracies inside the kernels (non-positive or
//non-finite magnetization during propagation) are NOT errors: they become the Huge
//sentinel rate, so the chi-squared landscape penalises the degenerate region and batch
//jobs keep running. Non-convergence of a minimisation is a status on the result, also
//not an error.

// Error is the interface all goNMR error types implement. The Decorate method allows to
// add and retrieve info from the error without changing its type or wrapping it around
// something else. Each call returns the current decoration slice; passing an empty
// string only retrieves it.
type Error interface {
	Error() string
	Decorate(string) []string
}

// ParamError reports an invalid argument handed to a goNMR entry point. It names the
// offending argument and its value so the caller can act on the message directly.
type ParamError struct {
	Arg     string
	Value   string
	message string
	deco    []string
}

// BadParam builds a *ParamError for the argument arg with the given value. The caller
// string should be the "pkg.Func" that rejected the argument.
func BadParam(caller, arg string, value interface{}, reason string) *ParamError {
	return &ParamError{
		Arg:     arg,
		Value:   fmt.Sprintf("%v", value),
		message: fmt.Sprintf("goNMR/%s: invalid argument %s=%v: %s", caller, arg, value, reason),
		deco:    []string{caller},
	}
}

func (E *ParamError) Error() string {
	return E.message
}

func (E *ParamError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}
