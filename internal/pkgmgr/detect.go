package pkgmgr

import (
	"context"

	"github.com/blackwell-systems/pkgfetch/internal/log"
)

// Family is a mutually exclusive set of package-manager tools.
type Family string

const (
	FamilyNone   Family = ""
	FamilyArch   Family = "arch"
	FamilyDebian Family = "debian"
	FamilyRPM    Family = "rpm"
)

// Query is one installed-listing invocation in a family's plan.
type Query struct {
	Tool   string
	Args   []string
	Source Source
}

// Detection is the outcome of probing the host: the winning family, its
// installed-listing plan in run order and the adapters that execute it.
type Detection struct {
	Family   Family
	Probe    string
	Queries  []Query
	Adapters []Adapter
}

// Empty reports whether no package manager family was found.
func (d Detection) Empty() bool {
	return d.Family == FamilyNone
}

type familySpec struct {
	family Family
	probe  string
	build  func(r Runner) []Adapter
}

// families is checked in order; the first whose probe answers wins.
var families = []familySpec{
	{
		family: FamilyArch,
		probe:  "pacman",
		build: func(r Runner) []Adapter {
			return []Adapter{NewPacman(r), NewAURHelper(r, "yay")}
		},
	},
	{
		family: FamilyDebian,
		probe:  "apt",
		build: func(r Runner) []Adapter {
			return []Adapter{NewDpkg(r), NewFlatpak(r)}
		},
	},
	{
		family: FamilyRPM,
		probe:  "rpm",
		build: func(r Runner) []Adapter {
			return []Adapter{NewRPM(r), NewFlatpak(r)}
		},
	},
}

// Detect probes each family's primary tool with --version. The companion
// tool (AUR helper or Flatpak) is included whether or not it is installed;
// its absence shows up later as a silent miss. When nothing answers the
// returned Detection is empty, which is a normal state.
func Detect(ctx context.Context, r Runner) Detection {
	for _, spec := range families {
		if _, err := r.Run(ctx, spec.probe, "--version"); err != nil {
			if ctx.Err() != nil {
				return Detection{}
			}
			log.Debug("probe did not answer", "tool", spec.probe, "err", err)
			continue
		}

		adapters := spec.build(r)
		return Detection{
			Family:   spec.family,
			Probe:    spec.probe,
			Queries:  queriesFor(adapters),
			Adapters: adapters,
		}
	}
	return Detection{}
}

func queriesFor(adapters []Adapter) []Query {
	queries := make([]Query, 0, len(adapters))
	for _, a := range adapters {
		q := Query{Tool: a.Tool(), Source: a.Source()}
		switch ad := a.(type) {
		case *lineAdapter:
			q.Args = ad.installedArgs
		case *rpmAdapter:
			q.Args = []string{"-qa"}
		}
		queries = append(queries, q)
	}
	return queries
}
