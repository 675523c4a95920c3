// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// CatchOptimizerError catches any runtime panics from property derivation and
// returns them as errors. Derivation code signals contract violations (for
// example an intersection without inputs) by panicking with an assertion
// failure instead of adding error checks everywhere. This is only possible
// because the derivation code does not update shared state and does not
// manipulate locks.
//
// It is passed the value returned by recover:
//
//	defer func() {
//	  if r := recover(); r != nil {
//	    err = opt.CatchOptimizerError(r)
//	  }
//	}()
func CatchOptimizerError(r interface{}) error {
	if r == nil {
		return nil
	}
	err, ok := r.(error)
	if !ok {
		// Not an error object. For serious internal errors e.g. in the scheduler,
		// bad goroutine state, allocator problem etc, the go runtime throws a
		// string which does not implement error. So in this case we suspect we are
		// not able to recover, and must crash.
		panic(r)
	}
	if errors.HasInterface(err, (*runtime.Error)(nil)) {
		// Convert runtime errors to assertion failures, which include stacks.
		return errors.HandleAsAssertionFailure(err)
	}
	return err
}
