package analyzer

import (
	"github.com/mcncl/phparray/internal/config"
	"github.com/mcncl/phparray/internal/errors"
	"github.com/mcncl/phparray/internal/models"
)

// Analyzer rewrites object keys according to configuration and gathers statistics
// about a parsed document.
type Analyzer struct {
	// config holds key rewriting rules
	config *config.Config
	// stats accumulates counts for the current run
	stats models.Stats
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		config: config.NewConfig(), // Use default config if none provided
	}
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Analyzer{config: cfg}
}

// Analyze walks the parsed document and returns a rewritten copy of it.
// The input tree is never modified. When no key rule applies the original
// tree is returned as is.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation) (models.AnalysisResult, error) {
	if ir.Root == nil {
		return models.AnalysisResult{}, errors.NewAnalysisError("document has no root value", nil)
	}

	a.stats = models.Stats{}
	root := a.analyzeNode(ir.Root, 1)

	return models.AnalysisResult{Root: root, Stats: a.stats}, nil
}

// analyzeNode returns v, or a copy of v when any key below it was renamed.
func (a *Analyzer) analyzeNode(v *models.Value, depth int) *models.Value {
	if depth > a.stats.MaxDepth {
		a.stats.MaxDepth = depth
	}

	switch v.Kind {
	case models.Array:
		a.stats.Arrays++
		return a.analyzeArray(v, depth)
	case models.Object:
		a.stats.Objects++
		return a.analyzeObject(v, depth)
	default:
		a.stats.Scalars++
		return v
	}
}

func (a *Analyzer) analyzeArray(v *models.Value, depth int) *models.Value {
	var items []*models.Value
	for i, item := range v.Items {
		rewritten := a.analyzeNode(item, depth+1)
		if rewritten != item && items == nil {
			items = make([]*models.Value, len(v.Items))
			copy(items, v.Items[:i])
		}
		if items != nil {
			items[i] = rewritten
		}
	}
	if items == nil {
		return v
	}

	out := *v
	out.Items = items
	return &out
}

func (a *Analyzer) analyzeObject(v *models.Value, depth int) *models.Value {
	rewrite := a.config.RewritesKeys()
	changed := false
	members := make([]models.Member, len(v.Members))
	seen := make(map[string]string, len(v.Members))

	for i, m := range v.Members {
		key := m.Key
		if rewrite {
			key = a.config.GetKeyName(m.Key)
			if key != m.Key {
				a.stats.RenamedKeys++
				changed = true
			}
			// Two different source keys that land on the same name
			if original, ok := seen[key]; ok && original != m.Key {
				a.stats.KeyCollisions++
			}
			seen[key] = m.Key
		}

		value := a.analyzeNode(m.Value, depth+1)
		if value != m.Value {
			changed = true
		}
		members[i] = models.Member{Key: key, Value: value, Offset: m.Offset}
	}

	if !changed {
		return v
	}

	out := *v
	out.Members = members
	return &out
}
