package classify

import "github.com/panbanda/modsplit/pkg/config"

// Thresholds bound the problem rules. A function is flagged when its metric
// is strictly greater than the threshold. A Complexity of zero disables the
// complexity rule.
type Thresholds struct {
	DependencyCount int
	DependentCount  int
	Complexity      int
}

// ModuleRule maps a module tag to the keywords that pull a function into it.
type ModuleRule struct {
	Tag      string
	Keywords []string
}

// FallbackPolicy decides where a function that matches no rule goes.
type FallbackPolicy string

const (
	// FallbackDefaultBucket puts unmatched functions in the default module.
	FallbackDefaultBucket FallbackPolicy = config.FallbackDefaultBucket
	// FallbackInheritFromDependency puts an unmatched function in the module
	// of its first already classified dependency, in sorted order.
	FallbackInheritFromDependency FallbackPolicy = config.FallbackInheritFromDependency
)
