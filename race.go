// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ringidx

// RaceEnabled is true when the race detector is active.
// Tests use it to skip concurrent FixedQueue payload checks, which the
// detector reports as races because the ordering comes from atomix
// operations on the slot cells rather than on the payload itself.
const RaceEnabled = true
