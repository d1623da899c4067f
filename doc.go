/*
Package affinity reads and sets the CPU affinity of the calling OS-level
thread, that is, the set of logical CPUs the thread is allowed to run on.

[SetThreadAffinity] restricts the calling thread to the specified CPU numbers,
while [GetThreadAffinity] returns the CPU numbers the calling thread is
currently allowed to run on, in ascending order. As Go schedules goroutines
onto arbitrary OS-level threads, callers must lock their goroutine to its
thread using [runtime.LockOSThread] for the affinity to stick to the goroutine.

Internally, CPU affinities are represented as a [Set]: a fixed-size bit string
of machine words, with exactly the size and bit layout that the kernel's own
affinity masks have on the build target. The maximum number of CPUs a Set can
address is [MaxCPUs] and depends on the target OS:

  - Linux: 1024, as glibc's cpu_set_t (and [golang.org/x/sys/unix.CPUSet]).
  - FreeBSD: 256, as the kernel's cpuset_t.

Additionally, [List] represents CPUs in textual list format, such as “1-4,8”,
as found in procfs and accepted by tools such as taskset(1) and cpuset(1).
*/
package affinity
