package verscout

import (
	"fmt"
	"strconv"
	"strings"
)

// Render maps a describe decomposition into the requested style. It is
// pure and deterministic; tag contents are passed through verbatim without
// semantic validation.
func Render(style Style, p *Pieces) (string, error) {
	switch style {
	case StylePep440, "":
		return renderPep440(p), nil
	case StylePep440Pre:
		return renderPep440Pre(p), nil
	case StylePep440Post:
		return renderPep440Post(p), nil
	case StylePep440Branch:
		return renderPep440Branch(p), nil
	case StyleGitDescribe:
		return renderGitDescribe(p), nil
	case StyleGitDescribeLong:
		return renderGitDescribeLong(p), nil
	case StyleDigits:
		return renderDigits(p), nil
	}
	return "", fmt.Errorf("unknown style %q", style)
}

// plusOrDot returns a + if the rendered string doesn't already have one.
func plusOrDot(p *Pieces) string {
	if strings.Contains(p.ClosestTag, "+") {
		return "."
	}
	return "+"
}

// renderPep440 builds TAG[+DISTANCE.gHEX[.dirty]]. A tagged build that
// gets dirtied renders TAG+0.gHEX.dirty, so dirtiness alone forces the
// local segment. With no tags at all: 0+untagged.DISTANCE.gHEX[.dirty].
func renderPep440(p *Pieces) string {
	if p.ClosestTag == "" {
		rendered := fmt.Sprintf("0+untagged.%d.g%s", p.Distance, p.Short)
		if p.Dirty {
			rendered += ".dirty"
		}
		return rendered
	}

	rendered := p.ClosestTag
	if p.Distance > 0 || p.Dirty {
		rendered += plusOrDot(p)
		rendered += fmt.Sprintf("%d.g%s", p.Distance, p.Short)
		if p.Dirty {
			rendered += ".dirty"
		}
	}
	return rendered
}

// renderPep440Pre builds TAG[.postN.devDISTANCE]. Dirty state is not
// rendered in this style. With no tags: 0.post0.devDISTANCE.
func renderPep440Pre(p *Pieces) string {
	if p.ClosestTag == "" {
		return fmt.Sprintf("0.post0.dev%d", p.Distance)
	}
	if p.Distance == 0 {
		return p.ClosestTag
	}

	// A tag that already carries a .post segment keeps its number.
	tagVersion, postVersion, hasPost := splitPost(p.ClosestTag)
	if hasPost {
		return fmt.Sprintf("%s.post%d.dev%d", tagVersion, postVersion, p.Distance)
	}
	return fmt.Sprintf("%s.post0.dev%d", p.ClosestTag, p.Distance)
}

func splitPost(ver string) (string, int, bool) {
	parts := strings.Split(ver, ".post")
	if len(parts) != 2 {
		return ver, 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		if parts[1] == "" {
			return parts[0], 0, true
		}
		return ver, 0, false
	}
	return parts[0], n, true
}

// renderPep440Post builds TAG[.postDISTANCE+gHEX[.dirty]].
// With no tags: 0.postDISTANCE+gHEX[.dirty].
func renderPep440Post(p *Pieces) string {
	if p.ClosestTag == "" {
		rendered := fmt.Sprintf("0.post%d+g%s", p.Distance, p.Short)
		if p.Dirty {
			rendered += ".dirty"
		}
		return rendered
	}

	rendered := p.ClosestTag
	if p.Distance > 0 || p.Dirty {
		rendered += fmt.Sprintf(".post%d", p.Distance)
		rendered += plusOrDot(p)
		rendered += "g" + p.Short
		if p.Dirty {
			rendered += ".dirty"
		}
	}
	return rendered
}

// renderPep440Branch builds TAG[[.dev0]+DISTANCE.gHEX[.dirty]]. The .dev0
// marks a non-master branch and sorts backwards, so a feature branch
// appears older than master. With no tags: 0[.dev0]+untagged.DISTANCE.gHEX[.dirty].
func renderPep440Branch(p *Pieces) string {
	if p.ClosestTag == "" {
		rendered := "0"
		if !isMasterBranch(p.Branch) {
			rendered += ".dev0"
		}
		rendered += fmt.Sprintf("+untagged.%d.g%s", p.Distance, p.Short)
		if p.Dirty {
			rendered += ".dirty"
		}
		return rendered
	}

	rendered := p.ClosestTag
	if p.Distance > 0 || p.Dirty {
		if !isMasterBranch(p.Branch) {
			rendered += ".dev0"
		}
		rendered += plusOrDot(p)
		rendered += fmt.Sprintf("%d.g%s", p.Distance, p.Short)
		if p.Dirty {
			rendered += ".dirty"
		}
	}
	return rendered
}

// renderGitDescribe builds TAG[-DISTANCE-gHEX][-dirty], like
// 'git describe --tags --dirty --always'. With no tags: HEX[-dirty].
func renderGitDescribe(p *Pieces) string {
	var rendered string
	if p.ClosestTag == "" {
		rendered = p.Short
	} else {
		rendered = p.ClosestTag
		if p.Distance > 0 {
			rendered += fmt.Sprintf("-%d-g%s", p.Distance, p.Short)
		}
	}
	if p.Dirty {
		rendered += "-dirty"
	}
	return rendered
}

// renderGitDescribeLong is like renderGitDescribe, but the distance and
// hash are rendered unconditionally.
func renderGitDescribeLong(p *Pieces) string {
	var rendered string
	if p.ClosestTag == "" {
		rendered = p.Short
	} else {
		rendered = fmt.Sprintf("%s-%d-g%s", p.ClosestTag, p.Distance, p.Short)
	}
	if p.Dirty {
		rendered += "-dirty"
	}
	return rendered
}

// renderDigits builds a digit-only version: the numeric dot-separated
// segments of the tag, plus one trailing component for the distance. A
// dirty tree at distance 0 appends 1 to still signal non-tag state.
func renderDigits(p *Pieces) string {
	base := digitsBase(p.ClosestTag)
	if p.Distance == 0 && !p.Dirty {
		return base
	}

	trailing := p.Distance
	if p.Dirty && trailing < 1 {
		trailing = 1
	}
	return base + "." + strconv.Itoa(trailing)
}

// digitsBase keeps only the fully-numeric dot-separated segments of a tag:
// "1.2.3.beta" becomes "1.2.3". An empty or digit-free tag yields "0".
func digitsBase(tag string) string {
	var segments []string
	for _, segment := range strings.Split(tag, ".") {
		if isDigits(segment) {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return "0"
	}
	return strings.Join(segments, ".")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
