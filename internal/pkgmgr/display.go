package pkgmgr

import "strings"

// DisplayName returns a short name for a record. Line-oriented listings keep
// the whole line as Name ("vim 9.1.0-1"); only the package token is returned.
func DisplayName(r Record) string {
	name, _ := displayFields(r)
	return name
}

// DisplayVersion returns the version for display, "unknown" when neither the
// record nor its raw line carries one.
func DisplayVersion(r Record) string {
	if r.Version != "" {
		return r.Version
	}
	if _, version := displayFields(r); version != "" {
		return version
	}
	return "unknown"
}

func displayFields(r Record) (string, string) {
	if r.Source == SourceFlatpak && strings.Contains(r.Name, "\t") {
		// "Mozilla Firefox\torg.mozilla.firefox\t128.0\tstable\tsystem"
		cols := strings.Split(r.Name, "\t")
		if len(cols) >= 3 {
			return strings.TrimSpace(cols[0]), strings.TrimSpace(cols[2])
		}
		return strings.TrimSpace(cols[0]), ""
	}

	fields := strings.Fields(r.Name)
	switch {
	case len(fields) == 0:
		return r.Name, ""
	case r.Source == SourceDebian && len(fields) >= 3 && isDpkgStatus(fields[0]):
		// "ii  vim  2:9.1.0016-1  amd64  Vi IMproved"
		return fields[1], fields[2]
	case len(fields) >= 2:
		return fields[0], fields[1]
	default:
		return fields[0], ""
	}
}

// isDpkgStatus matches the desired/status/error flags column of dpkg -l.
func isDpkgStatus(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
