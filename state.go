// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

// State is the position of a slot in its EMPTY → WRITING → FULL → READING
// cycle.
type State uint8

const (
	StateEmpty   State = iota // available for writing
	StateWriting              // reserved by one producer
	StateFull                 // holds a value, readable
	StateReading              // reserved by one consumer
)

// String returns the upper-case state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateWriting:
		return "WRITING"
	case StateFull:
		return "FULL"
	case StateReading:
		return "READING"
	}
	return "INVALID"
}

// Cell layout: generation in bits 2..63, state in bits 0..1.
// State and generation share one word so a single CAS moves both.
const (
	cellStateMask    = 0x3
	cellGenShift     = 2
	maxCellGen       = (1 << (64 - cellGenShift)) - 1
	disabledFlag     = 1 << 63
	maxCursorOpIndex = disabledFlag - 1
)

func encodeCell(generation uint64, s State) uint64 {
	return generation<<cellGenShift | uint64(s)
}

func decodeCell(cell uint64) (generation uint64, s State) {
	return cell >> cellGenShift, State(cell & cellStateMask)
}
