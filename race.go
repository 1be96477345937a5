// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package lflist

// RaceEnabled is true when the race detector is active.
// Used by tests to skip the long concurrent stress runs, which the detector
// slows down by an order of magnitude and whose epoch bookkeeping it cannot
// follow across atomix operations.
const RaceEnabled = true
