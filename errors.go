package hub

import (
	"errors"
	"fmt"
)

// ErrPkg roots every error this module produces.
var ErrPkg = errors.New("dongle-hub")

// Framing and command-level errors surface on the wire as status codes
// (AttrError, the dispatcher's status byte); the sentinels below are their
// Go-error counterparts, alongside the kinds that only ever propagate as
// errors: queue drops, slot-protocol violations, and host-scheduler
// pushback.
var (
	// ErrInvalidFraming covers every rejected chunk: a bad attribute
	// offset or length, or a mid-message id change. The specific
	// AttrError to answer the host with is wrapped alongside it.
	ErrInvalidFraming = fmt.Errorf("%w: invalid chunk framing", ErrPkg)
	// ErrOutOfBounds is a READ/WRITE outside the selected memory region,
	// or a region tag that names no region.
	ErrOutOfBounds = fmt.Errorf("%w: access outside the selected region", ErrPkg)
	// ErrUnknownCmd is a request whose opcode names no operation.
	ErrUnknownCmd = fmt.Errorf("%w: unknown command", ErrPkg)
	// ErrQueueOverflow is returned (and counted) when the bounded
	// aggregation FIFO is full and a frame is dropped.
	ErrQueueOverflow = fmt.Errorf("%w: aggregation queue full, frame dropped", ErrPkg)
	// ErrRadioStateTimeout marks a slot that ended while the radio was
	// mid-transition; the coroutine recovers by forcing the radio to
	// Disabled and powering off before reporting the slot done.
	ErrRadioStateTimeout = fmt.Errorf("%w: slot ended during radio transition", ErrPkg)
	// ErrSlotBlocked and ErrSlotCancelled mark a host-scheduler refusal
	// to grant a requested slot; the arbiter recovers by resubmitting
	// from a worker.
	ErrSlotBlocked      = fmt.Errorf("%w: timeslot request blocked by host scheduler", ErrPkg)
	ErrSlotCancelled    = fmt.Errorf("%w: timeslot request cancelled by host scheduler", ErrPkg)
	ErrCoroutineReentry = fmt.Errorf("%w: protocol coroutine resumed while already running", ErrPkg)
)
