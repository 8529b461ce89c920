// Package classify flags structurally risky functions and proposes a
// partition of functions into modules.
package classify

import (
	"strings"

	"github.com/panbanda/modsplit/pkg/config"
	"github.com/panbanda/modsplit/pkg/models"
)

// Classifier applies threshold and keyword rules to a finished function
// registry. It never mutates its input.
type Classifier struct {
	thresholds    Thresholds
	rules         []ModuleRule
	defaultModule string
	fallback      FallbackPolicy
}

// Option is a functional option for configuring Classifier.
type Option func(*Classifier)

// WithThresholds sets the problem-rule thresholds.
func WithThresholds(t Thresholds) Option {
	return func(c *Classifier) {
		c.thresholds = t
	}
}

// WithRules sets the ordered module table.
func WithRules(rules []ModuleRule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// WithDefaultModule sets the tag for functions that match no rule.
func WithDefaultModule(tag string) Option {
	return func(c *Classifier) {
		c.defaultModule = tag
	}
}

// WithFallbackPolicy sets how unmatched functions are placed.
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(c *Classifier) {
		c.fallback = p
	}
}

// WithConfig takes thresholds, module table, default module and fallback
// policy from cfg.
func WithConfig(cfg *config.Config) Option {
	rules := make([]ModuleRule, 0, len(cfg.Modules))
	for _, m := range cfg.Modules {
		rules = append(rules, ModuleRule{Tag: m.Tag, Keywords: m.Keywords})
	}
	opts := []Option{
		WithThresholds(Thresholds{
			DependencyCount: cfg.Thresholds.DependencyCount,
			DependentCount:  cfg.Thresholds.DependentCount,
			Complexity:      cfg.Thresholds.Complexity,
		}),
		WithRules(rules),
		WithDefaultModule(cfg.Classification.DefaultModule),
		WithFallbackPolicy(FallbackPolicy(cfg.Classification.FallbackPolicy)),
	}
	return func(c *Classifier) {
		for _, opt := range opts {
			opt(c)
		}
	}
}

// New creates a classifier. Settings not given by opts come from
// config.DefaultConfig.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	WithConfig(config.DefaultConfig())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Problems returns every rule violation in registry order. Within one
// function the rules fire in a fixed order and all applicable rules fire.
func (c *Classifier) Problems(functions []models.Function) []models.Problem {
	problems := make([]models.Problem, 0)
	add := func(name string, kind models.IssueKind, metric int) {
		problems = append(problems, models.Problem{
			FunctionName: name,
			IssueKind:    kind,
			Metric:       metric,
			Suggestion:   kind.Suggestion(),
		})
	}

	for i := range functions {
		fn := &functions[i]
		if n := len(fn.Dependencies); n > c.thresholds.DependencyCount {
			add(fn.Name, models.IssueHighDependencyCount, n)
		}
		if n := len(fn.Dependents); n > c.thresholds.DependentCount {
			add(fn.Name, models.IssueCriticalDependency, n)
		}
		if fn.UsesGlobalState && fn.UsesPlatformAPI {
			add(fn.Name, models.IssueMixedResponsibility, 1)
		}
		if c.thresholds.Complexity > 0 && fn.Complexity > c.thresholds.Complexity {
			add(fn.Name, models.IssueHighComplexity, fn.Complexity)
		}
	}
	return problems
}

// Modules partitions functions into module tags. Every configured tag and
// the default tag are present in the result, possibly empty. Names within a
// tag keep registry order.
func (c *Classifier) Modules(functions []models.Function) map[string][]string {
	modules := make(map[string][]string, len(c.rules)+1)
	for _, rule := range c.rules {
		modules[rule.Tag] = []string{}
	}
	if _, ok := modules[c.defaultModule]; !ok {
		modules[c.defaultModule] = []string{}
	}

	assigned := make([]string, len(functions))
	for i := range functions {
		assigned[i] = c.Match(functions[i].Name)
	}

	if c.fallback == FallbackInheritFromDependency {
		byName := make(map[string]int, len(functions))
		for i := range functions {
			byName[functions[i].Name] = i
		}
		for i := range functions {
			if assigned[i] != "" {
				continue
			}
			for _, dep := range functions[i].Dependencies {
				if j, ok := byName[dep]; ok && assigned[j] != "" {
					assigned[i] = assigned[j]
					break
				}
			}
		}
	}

	for i := range functions {
		tag := assigned[i]
		if tag == "" {
			tag = c.defaultModule
		}
		modules[tag] = append(modules[tag], functions[i].Name)
	}
	return modules
}

// Match returns the tag of the first rule whose keywords match name, or ""
// when no rule matches. A keyword matches when it occurs in the name,
// ignoring case.
func (c *Classifier) Match(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if kw == name || strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Tag
			}
		}
	}
	return ""
}
