// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package epoch

// RaceEnabled is true when the race detector is active.
// The detector does not see atomix operations as synchronization, so tests
// that hand entries between goroutines through the collector skip under it.
const RaceEnabled = true
