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
	"fmt"
	"runtime"
)

// The native affinity calls; unit tests replace them with doubles in order to
// simulate failing syscalls.
var (
	setaffinity = sysSetaffinity
	getaffinity = sysGetaffinity
)

// SetThreadAffinity restricts the calling OS-level thread to run only on the
// CPUs with the specified numbers. Specifying the same CPU multiple times is
// fine. It returns an error wrapping [ErrCPUOutOfRange] without touching the
// thread's affinity if any CPU number is [MaxCPUs] or above. If the kernel
// rejects the new affinity, such as when none of the CPUs is online, an
// [*AffinityError] is returned instead.
//
// Make sure to have the goroutine locked to its OS-level thread using
// [runtime.LockOSThread], otherwise the goroutine might afterwards be
// rescheduled to a different thread with a different affinity. There is no
// undo: callers wanting to restore the previous affinity need to fetch it
// beforehand using [GetThreadAffinity].
func SetThreadAffinity(cpus []uint) error {
	var set Set
	set.Zero()
	for _, cpu := range cpus {
		if !set.Add(cpu) {
			return fmt.Errorf("cannot set affinity to CPU %d, maximum is %d: %w",
				cpu, MaxCPUs-1, ErrCPUOutOfRange)
		}
	}
	return PinThread(set)
}

// GetThreadAffinity returns the numbers of the CPUs the calling OS-level
// thread is allowed to run on, in ascending order. Otherwise, it returns an
// [*AffinityError].
func GetThreadAffinity() ([]uint, error) {
	set, err := ThreadAffinity()
	if err != nil {
		return nil, err
	}
	return set.CPUs(), nil
}

// PinThread restricts the calling OS-level thread to the CPUs in the specified
// Set. See [SetThreadAffinity] for details.
func PinThread(set Set) error {
	// Keep the task ID and the syscall on the same thread, in case the caller
	// didn't lock its goroutine.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if e := setaffinity(gettid(), &set); e != 0 {
		return &AffinityError{Op: setaffinityOp, Errno: e}
	}
	return nil
}

// ThreadAffinity returns the Set of CPUs the calling OS-level thread is allowed
// to run on. Otherwise, it returns an [*AffinityError].
func ThreadAffinity() (Set, error) {
	var set Set
	set.Zero()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if e := getaffinity(gettid(), &set); e != 0 {
		return Set{}, &AffinityError{Op: getaffinityOp, Errno: e}
	}
	return set, nil
}
