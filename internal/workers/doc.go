/*
Package workers sizes the worker pools used for package verification.

Go 1.19+ sets GOMAXPROCS from the container CPU limit, while
runtime.NumCPU() still reports the host's CPUs. Worker counts here are
derived from GOMAXPROCS so a pod limited to 2 CPUs on a 64-core node does
not start 128 stat workers.

	// Asset verification is I/O-bound: 2 workers per CPU, at most 16.
	n := workers.ForIO(16)

	// An explicit request wins, still capped by the limit.
	n := workers.Resolve(cfg.VerifyWorkers, 16)

# Environment Variable Override

VERIFY_WORKERS overrides the automatic calculation. Invalid or non-positive
values are ignored:

	env:
	- name: VERIFY_WORKERS
	  value: "4"
*/
package workers
