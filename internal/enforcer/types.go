// Package enforcer implements retention policy enforcement on filesystem
// directories. Each policy describes one directory to sweep; the enforcer
// runs all policies on a bounded pool of workers and reports one result
// per policy.
package enforcer

import "time"

// Policy describes a single cleanup rule. Policies are value objects built
// from configuration and never mutated during enforcement.
type Policy struct {
	Directory  string // Target directory; may not exist at enforcement time
	Pattern    string // Glob pattern matched against file names, e.g. "*.log"
	Recursive  bool   // Descend into subdirectories
	MaxAgeDays int    // Files last modified more than this many days ago qualify
}

// Configuration is the input to an enforcement run.
type Configuration struct {
	MaxWorkers int      // Upper bound on concurrently running policies
	Policies   []Policy // Submission order; completion order is not defined
}

// Result is the outcome of enforcing one policy.
type Result struct {
	Directory string        // Copied from the policy
	Runtime   time.Duration // Wall-clock duration of the traversal
	Deleted   int           // Files deleted
	Failed    int           // Files that failed to delete, plus one per failed subdirectory
}
