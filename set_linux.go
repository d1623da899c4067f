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

// MaxCPUs is the maximum number of CPUs a [Set] can address, matching glibc's
// CPU_SETSIZE and thus [unix.CPUSet].
const MaxCPUs = 1024

// A Set must have exactly the size of cpu_set_t, otherwise compilation fails
// with a constant overflow here.
var (
	_ [unsafe.Sizeof(Set{}) - unsafe.Sizeof(unix.CPUSet{})]struct{}
	_ [unsafe.Sizeof(unix.CPUSet{}) - unsafe.Sizeof(Set{})]struct{}
	_ [setBytes - unsafe.Sizeof(Set{})]struct{}
)
