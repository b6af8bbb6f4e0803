package hardware

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PromoteScanThread pins the calling goroutine to its OS thread and moves the
// thread to SCHED_FIFO at the given priority. The goroutine must not return
// to the pool afterwards, so call it only from a loop that runs until exit.
func PromoteScanThread(priority int) error {
	if priority <= 0 {
		return nil
	}
	if priority > 99 {
		return fmt.Errorf("realtime priority %d out of range 1-99", priority)
	}

	runtime.LockOSThread()

	attr := unix.SchedAttr{
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(priority),
	}
	if err := unix.SchedSetAttr(unix.Gettid(), &attr, 0); err != nil {
		return fmt.Errorf("failed to set SCHED_FIFO priority %d: %w", priority, err)
	}
	return nil
}

// LockMemory keeps the process resident so scan timing is not disturbed by
// page faults.
func LockMemory() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("mlockall failed: %w", err)
	}
	return nil
}
