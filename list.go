// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package affinity

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/thediveo/faf"
)

// List is a list of CPU [from...to] ranges. CPU numbers are starting from zero.
type List [][2]uint

// String returns the CPU list in textual format, with the individual ranges
// “x-y” separated by “,” and single CPU ranges collapsed into “x” (instead of
// “x-x”).
func (l List) String() string {
	var b strings.Builder
	for idx, cpurange := range l {
		if idx > 0 {
			b.WriteString(",")
		}
		if cpurange[0] == cpurange[1] {
			b.WriteString(fmt.Sprintf("%d", cpurange[0]))
			continue
		}
		b.WriteString(fmt.Sprintf("%d-%d", cpurange[0], cpurange[1]))
	}
	return b.String()
}

// NewList returns a new CPU List for the given textual list format. If the text
// is malformed then an error is returned instead.
func NewList(b []byte) (List, error) {
	bs := faf.NewBytestring(b)
	// CPU numbers must fit into a uint, otherwise they would get truncated on
	// 32 bit targets.
	cpuNumber := func() (uint, bool) {
		n, ok := bs.Uint64()
		if !ok || n > math.MaxUint {
			return 0, false
		}
		return uint(n), true
	}
	l := List{}
	for {
		// nothing more, we're at the end of text/line, so we're successfully
		// done.
		if bs.EOL() {
			return l, nil
		}
		// we now expect a CPU number and if there is nothing else following,
		// we're also done, adding the CPU number as a single CPU range to our
		// list.
		from, ok := cpuNumber()
		if !ok {
			return nil, errors.New("expected unsigned integer number")
		}
		if bs.EOL() {
			return append(l, [2]uint{from, from}), nil
		}
		// Either this is a from-to range or another range should follow...
		switch ch, _ := bs.Next(); ch {
		case '-':
			to, ok := cpuNumber()
			if !ok {
				return nil, errors.New("expected unsigned integer number")
			}
			if to < from {
				return nil, fmt.Errorf("invalid range %d-%d", from, to)
			}
			l = append(l, [2]uint{from, to})
			if bs.EOL() {
				return l, nil
			}
			// another CPU number (or range) is expected to follow, separated by
			// ",".
			ch, _ = bs.Next()
			if ch != ',' {
				return nil, errors.New("expected ','")
			}
		case ',':
			l = append(l, [2]uint{from, from})
		default:
			return nil, errors.New("expected '-' or ','")
		}
	}
}

// Set returns the CPU Set corresponding with this list. It returns an error
// wrapping [ErrCPUOutOfRange] if the list contains CPU numbers of [MaxCPUs] or
// above.
func (l List) Set() (Set, error) {
	var s Set
	for _, r := range l {
		if r[1] >= MaxCPUs {
			return Set{}, fmt.Errorf("CPU range %d-%d exceeds maximum CPU %d: %w",
				r[0], r[1], MaxCPUs-1, ErrCPUOutOfRange)
		}
		for cpu := r[0]; cpu <= r[1]; cpu++ {
			s.Add(cpu)
		}
	}
	return s, nil
}

// CPUs returns the individual CPU numbers in this list, in list order.
func (l List) CPUs() []uint {
	cpus := []uint{}
	for _, r := range l {
		for cpu := r[0]; cpu <= r[1]; cpu++ {
			cpus = append(cpus, cpu)
			if cpu == r[1] {
				break // don't wrap around at the end of uint.
			}
		}
	}
	return cpus
}

// Remove the lowest CPU from the specified List, returning the CPU number
// together with a new List of remaining CPUs.
//
// The Remove operation is useful to pick individual and available (“online”)
// CPUs after first getting the List of CPU affinities for a thread.
func (l List) Remove() (cpu uint, remaining List) {
	if len(l) == 0 {
		panic("cannot remove from empty List")
	}
	lowestRange := l[0]
	if lowestRange[0] < lowestRange[1] {
		// There will still be CPUs in the lowest range after we've removed the
		// CPU at the beginning of the range...
		cpu = lowestRange[0]
		return cpu, append(List{[2]uint{cpu + 1, lowestRange[1]}}, l[1:]...)
	}
	return lowestRange[0], slices.Clone(l[1:])
}
