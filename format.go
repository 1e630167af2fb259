// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

import (
	"fmt"
	"strings"
)

// String renders the cursors and every slot, one per line, marking the
// slots the push and pop cursors point at. The snapshot is not atomic
// across lines.
//
// Example (capacity 4):
//
//	      capacity: 4
//	       enabled: true
//	 maxGeneration: 2305843009213693951
//	    maxOpIndex: 9223372036854775807
//	pushGeneration: 2
//	     pushIndex: 0
//	 popGeneration: 1
//	      popIndex: 2
//	       0: { 2   | EMPTY   } <-- push
//	       1: { 1   | READING }
//	       2: { 1   | FULL    } <-- pop
//	       3: { 1   | WRITING }
func (m *Manager) String() string {
	push := m.push.LoadAcquire()
	pop := m.pop.LoadAcquire()
	pushOp := push &^ disabledFlag
	pushIndex, popIndex := pushOp%m.capacity, pop%m.capacity

	var sb strings.Builder
	fmt.Fprintf(&sb, "%14s: %d\n", "capacity", m.capacity)
	fmt.Fprintf(&sb, "%14s: %t\n", "enabled", push&disabledFlag == 0)
	fmt.Fprintf(&sb, "%14s: %d\n", "maxGeneration", m.maxGeneration)
	fmt.Fprintf(&sb, "%14s: %d\n", "maxOpIndex", m.maxOpIndex)
	fmt.Fprintf(&sb, "%14s: %d\n", "pushGeneration", pushOp/m.capacity)
	fmt.Fprintf(&sb, "%14s: %d\n", "pushIndex", pushIndex)
	fmt.Fprintf(&sb, "%14s: %d\n", "popGeneration", pop/m.capacity)
	fmt.Fprintf(&sb, "%14s: %d\n", "popIndex", popIndex)

	for i := range m.cells {
		generation, state := decodeCell(m.cells[i].LoadAcquire())
		fmt.Fprintf(&sb, "%8d: { %-3d | %-7s }", i, generation, state)
		switch idx := uint64(i); {
		case idx == pushIndex && idx == popIndex:
			sb.WriteString(" <-- push & pop")
		case idx == pushIndex:
			sb.WriteString(" <-- push")
		case idx == popIndex:
			sb.WriteString(" <-- pop")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
