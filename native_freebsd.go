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

//go:build freebsd

package affinity

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Names of the native calls as reported by AffinityError.
const (
	setaffinityOp = "cpuset_setaffinity"
	getaffinityOp = "cpuset_getaffinity"
)

// See sys/cpuset.h.
const (
	cpuLevelWhich = 3 // CPU_LEVEL_WHICH: actual mask of the "which" object
	cpuWhichTid   = 1 // CPU_WHICH_TID: id is a thread ID
)

// gettid returns the thread ID of the calling OS-level thread, as returned by
// thr_self(2). Should thr_self fail, -1 is returned instead, which the cpuset
// syscalls take as the calling thread anyway.
func gettid() int {
	var tid int // C long
	_, _, e := unix.RawSyscall(unix.SYS_THR_SELF, uintptr(unsafe.Pointer(&tid)), 0, 0)
	if e != 0 {
		return -1
	}
	return tid
}

func sysSetaffinity(tid int, set *Set) unix.Errno {
	return cpusetAffinity(unix.SYS_CPUSET_SETAFFINITY, tid, set)
}

func sysGetaffinity(tid int, set *Set) unix.Errno {
	return cpusetAffinity(unix.SYS_CPUSET_GETAFFINITY, tid, set)
}

// cpusetAffinity issues either cpuset_setaffinity(2) or cpuset_getaffinity(2)
// on the thread with the specified tid. The id parameter is a 64 bit id_t,
// which 32 bit targets pass in two consecutive argument slots, low word first.
func cpusetAffinity(trap uintptr, tid int, set *Set) unix.Errno {
	var e unix.Errno
	if unsafe.Sizeof(uintptr(0)) == 8 {
		_, _, e = unix.RawSyscall6(trap, cpuLevelWhich, cpuWhichTid,
			uintptr(tid), unsafe.Sizeof(*set), uintptr(unsafe.Pointer(set)), 0)
		return e
	}
	id := uint64(int64(tid))
	_, _, e = unix.RawSyscall6(trap, cpuLevelWhich, cpuWhichTid,
		uintptr(id), uintptr(id>>32), unsafe.Sizeof(*set), uintptr(unsafe.Pointer(set)))
	return e
}
