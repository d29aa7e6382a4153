package verscout

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	describePattern = regexp.MustCompile(`^(.+)-(\d+)-g([0-9a-f]+)$`)
	bareHashPattern = regexp.MustCompile(`^[0-9a-f]+$`)
)

// ParseDescribe decomposes raw "git describe --tags --dirty --long" output
// of the form TAG-NUM-gHEX[-dirty]. A bare HEX[-dirty] (no tag matched the
// prefix) yields empty ClosestTag. TAG may itself contain hyphens, so the
// string is split from the right.
func ParseDescribe(raw, tagPrefix string) (*Pieces, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, classify(ErrDescribeUnparsable, "empty describe output")
	}

	pieces := &Pieces{}
	if strings.HasSuffix(s, "-dirty") {
		pieces.Dirty = true
		s = strings.TrimSuffix(s, "-dirty")
	}

	if m := describePattern.FindStringSubmatch(s); m != nil {
		fullTag := m[1]
		if !strings.HasPrefix(fullTag, tagPrefix) {
			return nil, classify(ErrTagPrefixMismatch,
				"tag %q doesn't start with prefix %q", fullTag, tagPrefix)
		}
		pieces.ClosestTag = strings.TrimPrefix(fullTag, tagPrefix)

		distance, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, classify(ErrDescribeUnparsable,
				"unable to parse describe output %q", raw)
		}
		pieces.Distance = distance
		pieces.Short = m[3]
		return pieces, nil
	}

	if bareHashPattern.MatchString(s) {
		pieces.Short = s
		return pieces, nil
	}

	return nil, classify(ErrDescribeUnparsable, "unable to parse describe output %q", raw)
}
