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
	"math/bits"
)

// WordBits is the number of bits in a single [Set] storage word. Kernel CPU
// masks are built from C “unsigned long” words and Go's uint has exactly this
// width on the supported targets.
const WordBits = bits.UintSize

// Words is the number of storage words of a [Set].
const Words = (MaxCPUs + WordBits - 1) / WordBits

// setBytes is the size of a [Set] in bytes, as passed to the kernel.
const setBytes = Words * WordBits / 8

// Set is a CPU bit string with the same size and layout as the kernel's CPU
// affinity masks: CPU n is bit n%WordBits in storage word n/WordBits, counting
// from the least significant bit. The zero value is the empty set. See also
// [sched_getaffinity(2)] and [cpuset_getaffinity(2)].
//
// [sched_getaffinity(2)]: https://man7.org/linux/man-pages/man2/sched_getaffinity.2.html
// [cpuset_getaffinity(2)]: https://man.freebsd.org/cgi/man.cgi?query=cpuset_getaffinity&sektion=2
type Set [Words]uint

// wordsFor returns the number of storage words needed for a bit string of the
// specified size in bits.
func wordsFor(size uint) uint {
	return (size + WordBits - 1) / WordBits
}

// bitWord returns the index of the storage word holding the bit for cpu in a
// bit string of the specified size. Bit strings fitting into a single word
// always address the first word.
func bitWord(size, cpu uint) uint {
	if wordsFor(size) == 1 {
		return 0
	}
	return cpu / WordBits
}

// bitMask returns the mask for cpu within its storage word.
func bitMask(size, cpu uint) uint {
	if wordsFor(size) == 1 {
		return uint(1) << cpu
	}
	return uint(1) << (cpu % WordBits)
}

// setBit sets the bit for cpu in the words of a bit string of the specified
// size, reporting whether it did. CPU numbers not below size, as well as CPU
// numbers addressing words beyond the passed words, are rejected and leave
// the words untouched.
func setBit(size, cpu uint, words []uint) bool {
	if cpu >= size {
		return false
	}
	idx := bitWord(size, cpu)
	if idx >= uint(len(words)) {
		return false
	}
	words[idx] |= bitMask(size, cpu)
	return true
}

// isBitSet reports whether the bit for cpu is set, using the same addressing
// as setBit. Out of range CPU numbers are never set.
func isBitSet(size, cpu uint, words []uint) bool {
	if cpu >= size {
		return false
	}
	idx := bitWord(size, cpu)
	if idx >= uint(len(words)) {
		return false
	}
	return words[idx]&bitMask(size, cpu) != 0
}

// Zero removes all CPUs from this set.
func (s *Set) Zero() {
	for idx := range s {
		s[idx] = 0
	}
}

// Add adds cpu to this set, reporting whether cpu was in the range of CPUs
// addressable by a Set. CPU numbers of [MaxCPUs] and above are rejected,
// leaving the set unchanged.
func (s *Set) Add(cpu uint) bool {
	return setBit(MaxCPUs, cpu, s[:])
}

// IsSet reports whether cpu is in this CPU set.
func (s Set) IsSet(cpu uint) bool {
	return isBitSet(MaxCPUs, cpu, s[:])
}

// CPUs returns the numbers of the CPUs in this set, in ascending order.
func (s Set) CPUs() []uint {
	cpus := []uint{}
	for cpu := uint(0); cpu < MaxCPUs; cpu++ {
		if isBitSet(MaxCPUs, cpu, s[:]) {
			cpus = append(cpus, cpu)
		}
	}
	return cpus
}

// String returns the CPUs in this set in textual list format. In list format,
// individual CPU ranges “x-y” are separated by “,”, and single CPU ranges
// collapsed into “x”.
func (s Set) String() string {
	return s.List().String()
}

// List returns the list of CPU ranges corresponding with this CPU Set.
//
// All-0s and all-1s storage words are consumed in one go; inside mixed words,
// runs of set and unset bits are skipped using trailing zero counts instead of
// testing bit by bit.
func (s Set) List() List {
	cpulist := List{}
	inrange := false
	from := uint(0)
	for idx, word := range s {
		base := uint(idx) * WordBits
		switch word {
		case 0:
			if inrange {
				cpulist = append(cpulist, [2]uint{from, base - 1})
				inrange = false
			}
			continue
		case ^uint(0):
			if !inrange {
				from = base
				inrange = true
			}
			continue
		}
		bit := uint(0)
		for bit < WordBits {
			if inrange {
				// Length of the run of set bits starting at bit; the zeros
				// shifted in from the top end this run at the word boundary.
				bit += uint(bits.TrailingZeros(^(word >> bit)))
				if bit < WordBits {
					cpulist = append(cpulist, [2]uint{from, base + bit - 1})
					inrange = false
				}
				continue
			}
			rest := word >> bit
			if rest == 0 {
				break
			}
			bit += uint(bits.TrailingZeros(rest))
			from = base + bit
			inrange = true
		}
	}
	if inrange {
		cpulist = append(cpulist, [2]uint{from, uint(len(s))*WordBits - 1})
	}
	return cpulist
}
