// Package memory configures the Go runtime's soft memory limit for
// containerized deployments.
//
// Go derives GOMAXPROCS from cgroup CPU limits but does not derive
// GOMEMLIMIT from cgroup memory limits. Call [ConfigureFromEnv] early in
// main:
//
//	limit := memory.ConfigureFromEnv()
//	if limit.Configured() {
//	    logging.Info("heap limit %d bytes", limit.GoMemLimit)
//	}
//
// An explicit GOMEMLIMIT wins. Otherwise MEMORY_LIMIT (bytes) scaled by
// MEMORY_RATIO (default 0.85) becomes the limit. A Kubernetes deployment
// can pass the container limit through the Downward API:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// The applied limit is exported as asset_transcoder_go_memory_limit_bytes.
package memory
