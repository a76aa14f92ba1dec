package analysis

import (
	"sort"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// SizeHint is a rough expectation of an alternative's footprint relative
// to the package it replaces.
type SizeHint string

const (
	SizeMuchSmaller SizeHint = "much smaller"
	SizeSmaller     SizeHint = "smaller"
	SizeSimilar     SizeHint = "similar"
	SizeLarger      SizeHint = "larger"
)

// Alternative is one curated suggestion for a package.
type Alternative struct {
	Name   string
	Reason string
	Size   SizeHint
}

// AlternativeMatch pairs a suggestion with what the environment actually
// has installed. Bytes and Delta are only meaningful when Installed.
type AlternativeMatch struct {
	Alternative
	Installed bool
	Bytes     int64
	Delta     int64 // Alternative size minus the package's size
}

// AlternativesResult lists the suggestions for one installed package.
type AlternativesResult struct {
	Package      string
	Version      string
	Bytes        int64
	Alternatives []AlternativeMatch
}

// alternativesDB is the curated suggestion table, keyed by normalized
// package name. Entries are opinionated and maintained by hand.
var alternativesDB = map[string][]Alternative{
	// Web frameworks
	"flask": {
		{Name: "fastapi", Reason: "Modern, faster, async support", Size: SizeSimilar},
		{Name: "bottle", Reason: "Minimal, single-file framework", Size: SizeSmaller},
	},
	"django": {
		{Name: "fastapi", Reason: "Modern, lighter, API-focused", Size: SizeMuchSmaller},
		{Name: "flask", Reason: "Simpler, more flexible", Size: SizeMuchSmaller},
	},

	// HTTP clients
	"requests": {
		{Name: "httpx", Reason: "Modern, async support, HTTP/2", Size: SizeSimilar},
		{Name: "urllib3", Reason: "Lower-level, fewer dependencies", Size: SizeSmaller},
	},

	// Date/time
	"arrow": {
		{Name: "pendulum", Reason: "Better timezone handling", Size: SizeSimilar},
		{Name: "python-dateutil", Reason: "Standard, fewer dependencies", Size: SizeSmaller},
	},

	// Parsing
	"beautifulsoup4": {
		{Name: "selectolax", Reason: "Much faster, C-based", Size: SizeSmaller},
		{Name: "pyquery", Reason: "jQuery-like API", Size: SizeSimilar},
	},

	// CLI
	"click": {
		{Name: "typer", Reason: "Type hints, better completion", Size: SizeSimilar},
		{Name: "argparse", Reason: "Standard library, no deps", Size: SizeMuchSmaller},
	},

	// Serialization
	"pyyaml": {
		{Name: "ruamel.yaml", Reason: "Better YAML 1.2 support", Size: SizeSimilar},
	},
	"pickle": {
		{Name: "dill", Reason: "More types supported", Size: SizeSimilar},
		{Name: "cloudpickle", Reason: "Better for distributed computing", Size: SizeSimilar},
	},

	// Validation
	"cerberus": {
		{Name: "pydantic", Reason: "Type hints, better performance", Size: SizeSimilar},
		{Name: "marshmallow", Reason: "More flexible", Size: SizeSimilar},
	},

	// Database
	"sqlalchemy": {
		{Name: "peewee", Reason: "Simpler, lighter ORM", Size: SizeMuchSmaller},
		{Name: "sqlite3", Reason: "Standard library", Size: SizeMuchSmaller},
	},

	// Testing
	"pytest": {
		{Name: "unittest", Reason: "Standard library, no deps", Size: SizeMuchSmaller},
	},
	"nose": {
		{Name: "pytest", Reason: "More actively maintained", Size: SizeSimilar},
		{Name: "unittest", Reason: "Standard library", Size: SizeSmaller},
	},

	// Numerical
	"numpy": {
		{Name: "jax", Reason: "GPU support, auto-diff", Size: SizeSimilar},
	},

	// Data processing
	"pandas": {
		{Name: "polars", Reason: "Much faster, better memory usage", Size: SizeSmaller},
		{Name: "dask", Reason: "Distributed computing", Size: SizeLarger},
	},

	// Plotting
	"matplotlib": {
		{Name: "plotly", Reason: "Interactive, modern", Size: SizeSimilar},
		{Name: "seaborn", Reason: "Simpler API, statistical", Size: SizeSmaller},
	},

	// Image processing
	"pillow": {
		{Name: "opencv-python", Reason: "More features, faster", Size: SizeLarger},
		{Name: "imageio", Reason: "Simpler, fewer deps", Size: SizeSmaller},
	},

	// JSON
	"simplejson": {
		{Name: "json", Reason: "Standard library", Size: SizeMuchSmaller},
		{Name: "ujson", Reason: "Ultra-fast", Size: SizeSmaller},
		{Name: "orjson", Reason: "Fastest, Rust-based", Size: SizeSmaller},
	},

	// Environment
	"python-dotenv": {
		{Name: "environs", Reason: "Type casting, validation", Size: SizeSimilar},
	},

	// AWS
	"boto3": {
		{Name: "aioboto3", Reason: "Async support", Size: SizeSimilar},
	},

	// Caching
	"redis": {
		{Name: "redis-py-cluster", Reason: "Cluster support", Size: SizeSimilar},
		{Name: "aioredis", Reason: "Async support", Size: SizeSimilar},
	},

	// Task queues
	"celery": {
		{Name: "rq", Reason: "Simpler, Redis-based", Size: SizeMuchSmaller},
		{Name: "dramatiq", Reason: "Better reliability", Size: SizeSmaller},
	},

	// Logging
	"loguru": {
		{Name: "logging", Reason: "Standard library", Size: SizeMuchSmaller},
	},

	// Configuration
	"configparser": {
		{Name: "dynaconf", Reason: "Multiple formats, environments", Size: SizeLarger},
	},
}

// AlternativesFor returns the curated suggestions for a package, or nil
// when none are known.
func AlternativesFor(name string) []Alternative {
	alts := alternativesDB[dist.NormalizeName(name)]
	return append([]Alternative(nil), alts...)
}

// KnownAlternatives returns a copy of the whole suggestion table.
func KnownAlternatives() map[string][]Alternative {
	out := make(map[string][]Alternative, len(alternativesDB))
	for name, alts := range alternativesDB {
		out[name] = append([]Alternative(nil), alts...)
	}
	return out
}

// Alternatives looks up the suggestions for one installed package and
// annotates each with whether it is already installed and, if so, its
// measured size relative to the target. Returns ErrCodePackageNotFound
// when the target is not installed; a package with no known
// alternatives yields an empty list, not an error.
func Alternatives(registry map[string]*dist.Distribution, target string) (*AlternativesResult, error) {
	key := dist.NormalizeName(target)
	d, ok := registry[key]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %s not found in environment", target)
	}

	sizes := newSizeCache()
	result := &AlternativesResult{
		Package: d.Name,
		Version: d.Version,
		Bytes:   sizes.of(registry, key),
	}

	for _, alt := range alternativesDB[key] {
		match := AlternativeMatch{Alternative: alt}
		altKey := dist.NormalizeName(alt.Name)
		if _, installed := registry[altKey]; installed {
			match.Installed = true
			match.Bytes = sizes.of(registry, altKey)
			match.Delta = match.Bytes - result.Bytes
		}
		result.Alternatives = append(result.Alternatives, match)
	}
	return result, nil
}

// AllAlternatives scans the whole registry and returns a result for
// every installed package the suggestion table knows about, sorted by
// package name.
func AllAlternatives(registry map[string]*dist.Distribution) []*AlternativesResult {
	var results []*AlternativesResult
	for name := range registry {
		if _, ok := alternativesDB[name]; !ok {
			continue
		}
		if result, err := Alternatives(registry, name); err == nil {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Package < results[j].Package })
	return results
}
