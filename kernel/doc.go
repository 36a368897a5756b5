// Package kernel describes the data-parallel dispatch interface the step
// driver targets: buffer allocation, host<->device transfer, and
// synchronous kernel launch. CPUExecutor is the only
// implementation shipped here, running every launch as a goroutine
// fan-out over the host's own memory; any accelerator-backed executor
// satisfying the same interface is a drop-in replacement.
package kernel
