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

import "unsafe"

// MaxCPUs is the maximum number of CPUs a [Set] can address, matching the
// kernel's CPU_MAXSIZE from sys/_cpuset.h.
const MaxCPUs = 256

// cpusetBytes is sizeof(cpuset_t).
const cpusetBytes = MaxCPUs / 8

// A Set must have exactly the size of cpuset_t, otherwise compilation fails
// with a constant overflow here.
var (
	_ [unsafe.Sizeof(Set{}) - cpusetBytes]struct{}
	_ [cpusetBytes - unsafe.Sizeof(Set{})]struct{}
	_ [setBytes - unsafe.Sizeof(Set{})]struct{}
)
