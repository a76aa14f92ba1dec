package analysis

import (
	"path/filepath"
	"sort"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/sizing"
)

// EnvSummary describes one side of an environment comparison.
type EnvSummary struct {
	Name       string
	Path       string
	Packages   int
	TotalBytes int64
}

// PackageSize names a package unique to one environment.
type PackageSize struct {
	Name    string
	Version string
	Bytes   int64
}

// VersionDiff records a package installed in both environments at
// different versions.
type VersionDiff struct {
	Name     string
	VersionA string
	VersionB string
	BytesA   int64
	BytesB   int64
}

// Delta returns the size change from A to B.
func (d VersionDiff) Delta() int64 { return d.BytesB - d.BytesA }

// CompareResult is the full diff between two environments. OnlyA and
// OnlyB are sorted by size descending, Changed by absolute size delta
// descending, Same alphabetically.
type CompareResult struct {
	A       EnvSummary
	B       EnvSummary
	OnlyA   []PackageSize
	OnlyB   []PackageSize
	Changed []VersionDiff
	Same    []string
}

// SizeDelta returns the total size change from A to B.
func (r *CompareResult) SizeDelta() int64 { return r.B.TotalBytes - r.A.TotalBytes }

// Compare enumerates two site-packages roots and diffs their installed
// package sets. Empty names default to the parent directory name of
// each root.
func Compare(rootA, rootB, nameA, nameB string, logf func(string, ...any)) (*CompareResult, error) {
	if nameA == "" {
		nameA = filepath.Base(filepath.Dir(rootA))
	}
	if nameB == "" {
		nameB = filepath.Base(filepath.Dir(rootB))
	}

	distsA, err := dist.Enumerate(rootA, logf)
	if err != nil {
		return nil, err
	}
	distsB, err := dist.Enumerate(rootB, logf)
	if err != nil {
		return nil, err
	}

	result := &CompareResult{
		A: EnvSummary{Name: nameA, Path: rootA, Packages: len(distsA)},
		B: EnvSummary{Name: nameB, Path: rootB, Packages: len(distsB)},
	}

	sizeOf := func(d *dist.Distribution) int64 {
		return sizing.DistributionSize(d.Files, sizing.Options{}).Bytes
	}

	for name, da := range distsA {
		bytesA := sizeOf(da)
		result.A.TotalBytes += bytesA

		db, ok := distsB[name]
		if !ok {
			result.OnlyA = append(result.OnlyA, PackageSize{Name: name, Version: da.Version, Bytes: bytesA})
			continue
		}
		if da.Version == db.Version {
			result.Same = append(result.Same, name)
			continue
		}
		result.Changed = append(result.Changed, VersionDiff{
			Name:     name,
			VersionA: da.Version,
			VersionB: db.Version,
			BytesA:   bytesA,
			BytesB:   sizeOf(db),
		})
	}

	for name, db := range distsB {
		bytesB := sizeOf(db)
		result.B.TotalBytes += bytesB
		if _, ok := distsA[name]; !ok {
			result.OnlyB = append(result.OnlyB, PackageSize{Name: name, Version: db.Version, Bytes: bytesB})
		}
	}

	sort.Slice(result.OnlyA, func(i, j int) bool { return result.OnlyA[i].Bytes > result.OnlyA[j].Bytes })
	sort.Slice(result.OnlyB, func(i, j int) bool { return result.OnlyB[i].Bytes > result.OnlyB[j].Bytes })
	sort.Slice(result.Changed, func(i, j int) bool {
		return abs(result.Changed[i].Delta()) > abs(result.Changed[j].Delta())
	})
	sort.Strings(result.Same)

	return result, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
