// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx_test

import (
	"reflect"
	"testing"
	"unsafe"

	"code.hybscloud.com/ringidx"
	"golang.org/x/sys/cpu"
)

// TestManagerLayout verifies the push and pop cursors sit on different
// cache lines, apart from the read-mostly fields.
func TestManagerLayout(t *testing.T) {
	typ := reflect.TypeOf(ringidx.Manager{})
	line := unsafe.Sizeof(cpu.CacheLinePad{})

	offset := func(name string) uintptr {
		field, ok := typ.FieldByName(name)
		if !ok {
			t.Fatalf("missing field %q", name)
		}
		return field.Offset
	}

	push, pop, cells := offset("push"), offset("pop"), offset("cells")
	if push < line {
		t.Fatalf("push offset %d: want at least one cache line (%d) of leading padding", push, line)
	}
	if pop-push < line {
		t.Fatalf("push/pop distance %d: want >= %d", pop-push, line)
	}
	if cells-pop < line {
		t.Fatalf("pop/cells distance %d: want >= %d", cells-pop, line)
	}
}
