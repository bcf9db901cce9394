/*
 * Copyright 2025 bfkit Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package interp

import (
    `fmt`
    `sort`
    `strings`

    `gonum.org/v1/gonum/stat`
)

// Profile accumulates execution statistics: a per-instruction counter,
// the extreme cell indices touched and the extreme cell values observed.
// Rendering beyond the plain-text Summary is left to external tooling.
type Profile struct {
    Counts   []uint64
    MinCell  int
    MaxCell  int
    MinVal   uint64
    MaxVal   uint64
    anyCell  bool
    anyValue bool
}

func (self *Profile) reset(n int) {
    *self = Profile { Counts: make([]uint64, n) }
}

func (self *Profile) step(pc int, cell int) {
    self.Counts[pc]++
    self.touch(cell)
}

func (self *Profile) touch(cell int) {
    if !self.anyCell {
        self.MinCell, self.MaxCell, self.anyCell = cell, cell, true
        return
    }
    if cell < self.MinCell { self.MinCell = cell }
    if cell > self.MaxCell { self.MaxCell = cell }
}

func (self *Profile) value(v uint64) {
    if self == nil {
        return
    }
    if !self.anyValue {
        self.MinVal, self.MaxVal, self.anyValue = v, v, true
        return
    }
    if v < self.MinVal { self.MinVal = v }
    if v > self.MaxVal { self.MaxVal = v }
}

// Summary renders the profile as text: totals, the count distribution
// over executed instructions, and the five hottest program counters.
func (self *Profile) Summary() string {
    var sb strings.Builder

    type site struct {
        pc int
        nb uint64
    }

    total := uint64(0)
    hot := make([]site, 0, len(self.Counts))

    for pc, nb := range self.Counts {
        total += nb
        if nb != 0 {
            hot = append(hot, site { pc, nb })
        }
    }

    xs := make([]float64, len(hot))
    for i, s := range hot {
        xs[i] = float64(s.nb)
    }

    mean, sigma := stat.MeanStdDev(xs, nil)
    fmt.Fprintf(&sb, "instructions executed: %d\n", total)
    fmt.Fprintf(&sb, "hit sites: %d of %d (mean %.1f, sigma %.1f)\n", len(hot), len(self.Counts), mean, sigma)
    fmt.Fprintf(&sb, "cells touched: [%d, %d]\n", self.MinCell, self.MaxCell)
    fmt.Fprintf(&sb, "cell values: [%d, %d]\n", self.MinVal, self.MaxVal)

    sort.Slice(hot, func(i int, j int) bool { return hot[i].nb > hot[j].nb })
    for i := 0; i < len(hot) && i < 5; i++ {
        fmt.Fprintf(&sb, "  hot pc %-6d %d\n", hot[i].pc, hot[i].nb)
    }
    return sb.String()
}
