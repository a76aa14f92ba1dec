package updates

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/sizing"
)

// Status classifies an installed version against the index.
type Status string

const (
	StatusOutdated    Status = "outdated"
	StatusUpToDate    Status = "up_to_date"
	StatusAhead       Status = "ahead" // Local dev or pre-release build
	StatusUnknown     Status = "unknown"
	StatusUnavailable Status = "unavailable"
)

// Update is the check result for one package.
type Update struct {
	Package        string
	CurrentVersion string
	LatestVersion  string
	Status         Status
	CurrentSize    int64
	UploadDate     string
	Homepage       string
	Summary        string
}

// Behind reports whether a newer release exists.
func (u *Update) Behind() bool { return u.Status == StatusOutdated }

// Result aggregates a batch check, with results sorted by package name.
type Result struct {
	Checked     int
	Outdated    []*Update
	UpToDate    []*Update
	Unavailable []*Update
	All         []*Update
}

// CheckUpdates queries the index for every named package present in
// the registry, fanning requests across a fixed worker pool. Empty
// names means all registry entries.
func CheckUpdates(ctx context.Context, client *Client, registry map[string]*dist.Distribution, names []string, workers int) *Result {
	if workers <= 0 {
		workers = 10
	}

	var targets []string
	if len(names) == 0 {
		for name := range registry {
			targets = append(targets, name)
		}
	} else {
		for _, name := range names {
			key := dist.NormalizeName(name)
			if _, ok := registry[key]; ok {
				targets = append(targets, key)
			}
		}
	}
	sort.Strings(targets)

	jobs := make(chan string)
	updates := make(chan *Update)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				updates <- checkOne(ctx, client, registry[name], name)
			}
		}()
	}

	go func() {
		for _, name := range targets {
			jobs <- name
		}
		close(jobs)
		wg.Wait()
		close(updates)
	}()

	result := &Result{}
	for update := range updates {
		result.All = append(result.All, update)
	}
	sort.Slice(result.All, func(i, j int) bool { return result.All[i].Package < result.All[j].Package })

	result.Checked = len(result.All)
	for _, update := range result.All {
		switch update.Status {
		case StatusOutdated:
			result.Outdated = append(result.Outdated, update)
		case StatusUpToDate:
			result.UpToDate = append(result.UpToDate, update)
		case StatusUnavailable:
			result.Unavailable = append(result.Unavailable, update)
		}
	}
	return result
}

func checkOne(ctx context.Context, client *Client, d *dist.Distribution, name string) *Update {
	update := &Update{
		Package:        name,
		CurrentVersion: d.Version,
		CurrentSize:    sizing.DistributionSize(d.Files, sizing.Options{}).Bytes,
	}

	info, err := client.LatestRelease(ctx, name)
	if err != nil {
		update.Status = StatusUnavailable
		return update
	}

	update.LatestVersion = info.Version
	update.Status = CompareVersions(d.Version, info.Version)
	update.UploadDate = info.UploadDate
	update.Homepage = info.Homepage
	update.Summary = info.Summary
	return update
}

var versionPartRE = regexp.MustCompile(`^(\d+)(.*)$`)

// CompareVersions classifies current against latest. Dotted components
// compare numerically with any trailing pre-release tag breaking ties
// lexically (a tagged component sorts before its untagged release, so
// "1.0rc1" is older than "1.0"). Versions with no leading digit are
// unknown.
func CompareVersions(current, latest string) Status {
	cmp, ok := versionCmp(current, latest)
	if !ok {
		return StatusUnknown
	}
	switch {
	case cmp < 0:
		return StatusOutdated
	case cmp > 0:
		return StatusAhead
	default:
		return StatusUpToDate
	}
}

func versionCmp(a, b string) (int, bool) {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv string
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}

		an, atag, aok := splitVersionPart(av)
		bn, btag, bok := splitVersionPart(bv)
		if !aok || !bok {
			if i == 0 {
				return 0, false
			}
			// Trailing junk: fall back to lexical on the raw part.
			if av != bv {
				return strings.Compare(av, bv), true
			}
			continue
		}

		if an != bn {
			if an < bn {
				return -1, true
			}
			return 1, true
		}
		if atag != btag {
			// An empty tag is the final release, newer than any tagged
			// build of the same number.
			switch {
			case atag == "":
				return 1, true
			case btag == "":
				return -1, true
			default:
				return strings.Compare(atag, btag), true
			}
		}
	}
	return 0, true
}

// splitVersionPart separates "12rc1" into 12 and "rc1". Empty parts
// (missing components) count as zero.
func splitVersionPart(part string) (int, string, bool) {
	if part == "" {
		return 0, "", true
	}
	m := versionPartRE.FindStringSubmatch(part)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, m[2], true
}
