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
	"unsafe"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
)

func setOf(cpus ...uint) Set {
	var s Set
	for _, cpu := range cpus {
		Expect(s.Add(cpu)).To(BeTrue())
	}
	return s
}

func cpuRange(from, to uint) []uint {
	cpus := []uint{}
	for cpu := from; cpu <= to; cpu++ {
		cpus = append(cpus, cpu)
	}
	return cpus
}

var _ = Describe("cpu sets", func() {

	It("has the kernel's mask size", func() {
		Expect(unsafe.Sizeof(Set{})).To(Equal(uintptr(MaxCPUs / 8)))
		Expect(unsafe.Sizeof(Set{})).To(Equal(uintptr(setBytes)))
		Expect(Words * WordBits).To(BeNumerically(">=", MaxCPUs))
		Expect((Words - 1) * WordBits).To(BeNumerically("<", MaxCPUs))
	})

	When("addressing bits", func() {

		It("returns correct word indices and masks", func() {
			Expect(bitWord(MaxCPUs, 0)).To(Equal(uint(0)))
			Expect(bitWord(MaxCPUs, WordBits-1)).To(Equal(uint(0)))
			Expect(bitWord(MaxCPUs, WordBits)).To(Equal(uint(1)))
			Expect(bitWord(MaxCPUs, 2*WordBits+3)).To(Equal(uint(2)))

			Expect(bitMask(MaxCPUs, 3)).To(Equal(uint(1) << 3))
			Expect(bitMask(MaxCPUs, 2*WordBits+3)).To(Equal(uint(1) << 3))
		})

		It("sets and tests every single CPU without touching others", func() {
			for cpu := uint(0); cpu < MaxCPUs; cpu++ {
				var s Set
				s.Zero()
				Expect(setBit(MaxCPUs, cpu, s[:])).To(BeTrue())
				Expect(isBitSet(MaxCPUs, cpu, s[:])).To(BeTrue())
				Expect(s.CPUs()).To(Equal([]uint{cpu}), "CPU %d", cpu)
			}
		})

		It("degenerates correctly to a single word", func() {
			for _, size := range []uint{WordBits, WordBits / 2, 1} {
				Expect(wordsFor(size)).To(Equal(uint(1)))
				for cpu := uint(0); cpu < size; cpu++ {
					words := []uint{0}
					Expect(bitWord(size, cpu)).To(BeZero())
					Expect(setBit(size, cpu, words)).To(BeTrue())
					Expect(words[0]).To(Equal(uint(1)<<cpu), "CPU %d of %d", cpu, size)
					for other := uint(0); other < size; other++ {
						Expect(isBitSet(size, other, words)).To(Equal(other == cpu))
					}
				}
			}
		})

		It("lands boundary CPUs in the correct words", func() {
			var s Set
			Expect(s.Add(0)).To(BeTrue())
			Expect(s.Add(MaxCPUs - 1)).To(BeTrue())
			Expect(s[0]).To(Equal(uint(1)))
			Expect(s[Words-1]).To(Equal(uint(1) << ((MaxCPUs - 1) % WordBits)))
			for idx := 1; idx < Words-1; idx++ {
				Expect(s[idx]).To(BeZero())
			}
			Expect(s.CPUs()).To(Equal([]uint{0, MaxCPUs - 1}))
		})

		It("rejects out of range CPUs without wrapping", func() {
			s := setOf(1)
			Expect(s.Add(MaxCPUs)).To(BeFalse())
			Expect(s.Add(MaxCPUs + 1)).To(BeFalse())
			Expect(s.Add(^uint(0))).To(BeFalse())
			Expect(s.CPUs()).To(Equal([]uint{1}))
			Expect(s.IsSet(MaxCPUs + 1)).To(BeFalse())

			words := []uint{0}
			Expect(setBit(2*WordBits, WordBits, words)).To(BeFalse())
			Expect(setBit(0, 0, words)).To(BeFalse())
			Expect(words[0]).To(BeZero())
		})

		It("zeroes", func() {
			s := setOf(0, 42, MaxCPUs-1)
			s.Zero()
			Expect(s).To(Equal(Set{}))
			Expect(s.CPUs()).To(BeEmpty())
		})

	})

	DescribeTable("listing",
		func(cpus []uint, expected List) {
			s := setOf(cpus...)
			Expect(s.List()).To(Equal(expected))
		},
		Entry("empty set", []uint{}, List{}),

		Entry("single cpu #0", []uint{0}, List{{0, 0}}),
		Entry("single cpu #1", []uint{1}, List{{1, 1}}),
		Entry("last cpu of first word", []uint{WordBits - 1}, List{{WordBits - 1, WordBits - 1}}),
		Entry("cpus #1-3", []uint{1, 2, 3}, List{{1, 3}}),

		Entry("skip first zero word", []uint{WordBits}, List{{WordBits, WordBits}}),
		Entry("multiple ranges in same word", []uint{1, 2, WordBits - 2},
			List{{1, 2}, {WordBits - 2, WordBits - 2}}),

		Entry("range across word boundary", []uint{WordBits - 1, WordBits},
			List{{WordBits - 1, WordBits}}),
		Entry("range into all-1s word", cpuRange(WordBits-1, 2*WordBits-1),
			List{{WordBits - 1, 2*WordBits - 1}}),
		Entry("range ending at word boundary", []uint{WordBits - 2, WordBits - 1, WordBits + 1},
			List{{WordBits - 2, WordBits - 1}, {WordBits + 1, WordBits + 1}}),
		Entry("range ending before last word", cpuRange(WordBits, MaxCPUs-WordBits-1),
			List{{WordBits, MaxCPUs - WordBits - 1}}),
		Entry("multiple all-1s words", cpuRange(0, 2*WordBits-1), List{{0, 2*WordBits - 1}}),
		Entry("all cpus", cpuRange(0, MaxCPUs-1), List{{0, MaxCPUs - 1}}),

		Entry("mixed", append(cpuRange(0, WordBits), WordBits+3),
			List{{0, WordBits}, {WordBits + 3, WordBits + 3}}),
		Entry("last cpu", []uint{3, MaxCPUs - 1}, List{{3, 3}, {MaxCPUs - 1, MaxCPUs - 1}}),

		Entry("b/w", []uint{5, 7, 9, 11}, List{{5, 5}, {7, 7}, {9, 9}, {11, 11}}),
		Entry("art", []uint{5, 7, 8, 10}, List{{5, 5}, {7, 8}, {10, 10}}),
	)

	It("lists the same CPUs as scanning bit by bit", func() {
		var s Set
		for cpu := uint(0); cpu < MaxCPUs; cpu += 3 {
			s.Add(cpu)
			s.Add(cpu + 1)
		}
		Expect(s.List().CPUs()).To(Equal(s.CPUs()))
	})

	Context("textual representation", func() {

		It("handles the empty set correctly", func() {
			Expect(Set{}.String()).To(BeEmpty())
		})

		It("returns a textual list representation", func() {
			Expect(setOf(1, 2, WordBits).String()).To(Equal(
				List{{1, 2}, {WordBits, WordBits}}.String()))
			Expect(setOf(1, 2, 64).String()).To(Equal("1-2,64"))
		})

	})

})
