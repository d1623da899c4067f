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

//go:build linux

package affinity

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Names of the native calls as reported by AffinityError.
const (
	setaffinityOp = "sched_setaffinity"
	getaffinityOp = "sched_getaffinity"
)

// gettid returns the task ID of the calling OS-level thread.
func gettid() int {
	return unix.Gettid()
}

// sysSetaffinity sets the affinity mask of the task with the specified tid.
// We use RawSyscall here instead of Syscall as we know that
// SYS_SCHED_SETAFFINITY does not block, following Go's stdlib implementation.
func sysSetaffinity(tid int, set *Set) unix.Errno {
	_, _, e := unix.RawSyscall(unix.SYS_SCHED_SETAFFINITY,
		uintptr(tid), uintptr(unsafe.Sizeof(*set)), uintptr(unsafe.Pointer(set)))
	return e
}

// sysGetaffinity reads the affinity mask of the task with the specified tid
// into set. The kernel only copies as many bytes as its own CPU masks have,
// so set must have been zeroed before.
func sysGetaffinity(tid int, set *Set) unix.Errno {
	_, _, e := unix.RawSyscall(unix.SYS_SCHED_GETAFFINITY,
		uintptr(tid), uintptr(unsafe.Sizeof(*set)), uintptr(unsafe.Pointer(set)))
	return e
}
