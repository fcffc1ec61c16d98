/*
Package memory sets the Go soft memory limit from the container's memory
limit.

Kubernetes exposes the container limit through the Downward API:

	env:
	- name: MEMORY_LIMIT
	  valueFrom:
	    resourceFieldRef:
	      resource: limits.memory

ConfigureFromEnv sets GOMEMLIMIT to MEMORY_RATIO (default 0.85) of that
value so the garbage collector works harder before the container is
OOM-killed while reading a large remote Asset Map. An explicit GOMEMLIMIT
always wins.
*/
package memory
