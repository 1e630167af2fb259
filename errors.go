// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the reservation cannot be made right now.
//
// For AcquirePushIndex: every slot is still occupied (ring full)
// For AcquirePopIndex: no slot holds a published value (ring empty)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller picks
// the policy: retry with backoff, queue elsewhere, or reject.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrDisabled indicates the manager refuses new push reservations because
// [Manager.Disable] was called. Pop reservations are never refused.
var ErrDisabled = errors.New("ringidx: push disabled")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsDisabled reports whether err is (or wraps) [ErrDisabled].
func IsDisabled(err error) bool {
	return errors.Is(err, ErrDisabled)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// ErrDisabled counts as one: it is a policy signal from the closing protocol.
func IsSemantic(err error) bool {
	return IsDisabled(err) || iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
