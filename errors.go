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
	"syscall"
)

// ErrCPUOutOfRange indicates a CPU number of [MaxCPUs] or above.
var ErrCPUOutOfRange = errors.New("CPU number out of range")

// AffinityError reports a failed native affinity call, together with the raw
// OS error number returned by the kernel.
type AffinityError struct {
	Op    string        // name of the failed native call
	Errno syscall.Errno // OS error number
}

// Error returns the name of the failed native call together with the numeric
// OS error number, as the meaning of error numbers varies across systems.
func (e *AffinityError) Error() string {
	return fmt.Sprintf("%s failed with errno %d", e.Op, uintptr(e.Errno))
}

// Unwrap returns the OS error number, so that errors.Is(err, unix.EINVAL) and
// friends work as expected.
func (e *AffinityError) Unwrap() error {
	return e.Errno
}
