package gate

import (
	"fmt"
	"regexp"
	"strings"
)

// CheckKind enumerates the known quality checks as a closed type, so that
// each rule carries its own evaluation logic instead of living behind a
// string-keyed dispatch table. Unknown configured names are handled in
// checkerFor, not here.
type CheckKind int

const (
	CheckPatternCompliance CheckKind = iota
	CheckNamingConventions
	CheckImportStructure
	CheckTestCoverage
	CheckDocumentation
	CheckEventConsistency
)

var checkNames = map[CheckKind]string{
	CheckPatternCompliance: "pattern_compliance",
	CheckNamingConventions: "naming_conventions",
	CheckImportStructure:   "import_structure",
	CheckTestCoverage:      "test_coverage",
	CheckDocumentation:     "documentation",
	CheckEventConsistency:  "event_consistency",
}

// ParseCheckKind resolves a configured check name.
func ParseCheckKind(name string) (CheckKind, bool) {
	for kind, n := range checkNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Name returns the configuration name of the check.
func (k CheckKind) Name() string {
	return checkNames[k]
}

// baseManagerClass is the base type every manager class must extend.
const baseManagerClass = "BaseManager"

var (
	classDeclRe = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)(?:\s+extends\s+([A-Za-z_$][\w$.]*))?`)
	pascalRe    = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

	deepImportRe   = regexp.MustCompile(`(?m)from\s+['"]([^'"]*/internal/[^'"]*)['"]`)
	sceneLiteralRe = regexp.MustCompile(`\.(?:start|launch)\(\s*['"]([^'"]+)['"]`)

	exportedClassRe = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`)
	emitLiteralRe   = regexp.MustCompile(`\.emit\(\s*['"]([^'"]+)['"]`)
)

// Check evaluates the rule against raw code text. All rules are textual
// heuristics over the game codebase's JavaScript; none of them parse the
// source.
func (k CheckKind) Check(code string) CheckResult {
	passed, message := k.evaluate(code)
	return CheckResult{Check: k.Name(), Passed: passed, Message: message}
}

func (k CheckKind) evaluate(code string) (bool, string) {
	switch k {
	case CheckPatternCompliance:
		return checkPatternCompliance(code)
	case CheckNamingConventions:
		return checkNamingConventions(code)
	case CheckImportStructure:
		return checkImportStructure(code)
	case CheckTestCoverage:
		return true, "Coverage check pending"
	case CheckDocumentation:
		return checkDocumentation(code)
	case CheckEventConsistency:
		return checkEventConsistency(code)
	}
	return true, "Check not implemented"
}

// checkPatternCompliance requires every *Manager class to extend the
// shared BaseManager.
func checkPatternCompliance(code string) (bool, string) {
	var offenders []string
	for _, m := range classDeclRe.FindAllStringSubmatch(code, -1) {
		name, base := m[1], m[2]
		if !strings.Contains(name, "Manager") || name == baseManagerClass {
			continue
		}
		if base != baseManagerClass {
			offenders = append(offenders, name)
		}
	}
	if len(offenders) > 0 {
		return false, fmt.Sprintf("manager class %s does not extend %s", strings.Join(offenders, ", "), baseManagerClass)
	}
	return true, "Manager classes extend " + baseManagerClass
}

// checkNamingConventions requires PascalCase class names.
func checkNamingConventions(code string) (bool, string) {
	var offenders []string
	for _, m := range classDeclRe.FindAllStringSubmatch(code, -1) {
		if !pascalRe.MatchString(m[1]) {
			offenders = append(offenders, m[1])
		}
	}
	if len(offenders) > 0 {
		return false, fmt.Sprintf("class %s is not PascalCase", strings.Join(offenders, ", "))
	}
	return true, "Class names follow PascalCase"
}

// checkImportStructure rejects deep internal imports and scene
// transitions that pass a string literal instead of a SceneKeys constant.
func checkImportStructure(code string) (bool, string) {
	if m := deepImportRe.FindStringSubmatch(code); m != nil {
		return false, fmt.Sprintf("deep internal import %q; import from the public barrel instead", m[1])
	}
	if m := sceneLiteralRe.FindStringSubmatch(code); m != nil {
		return false, fmt.Sprintf("scene transition uses literal %q; use a SceneKeys constant", m[1])
	}
	return true, "Imports and scene transitions are well-formed"
}

// checkDocumentation requires a /** ... */ block immediately above every
// exported class declaration.
func checkDocumentation(code string) (bool, string) {
	lines := strings.Split(code, "\n")
	var offenders []string

	for _, loc := range exportedClassRe.FindAllStringSubmatchIndex(code, -1) {
		name := code[loc[2]:loc[3]]
		declLine := strings.Count(code[:loc[0]], "\n")
		documented := false
		for i := declLine - 1; i >= 0; i-- {
			trimmed := strings.TrimSpace(lines[i])
			if trimmed == "" {
				continue
			}
			documented = strings.HasSuffix(trimmed, "*/")
			break
		}
		if !documented {
			offenders = append(offenders, name)
		}
	}

	if len(offenders) > 0 {
		return false, fmt.Sprintf("exported class %s has no doc block", strings.Join(offenders, ", "))
	}
	return true, "Exported classes are documented"
}

// checkEventConsistency requires emitted event name literals to carry a
// namespace separator. Emits that reference a constants symbol never
// match the literal form and pass through.
func checkEventConsistency(code string) (bool, string) {
	var offenders []string
	for _, m := range emitLiteralRe.FindAllStringSubmatch(code, -1) {
		if !strings.Contains(m[1], ":") {
			offenders = append(offenders, m[1])
		}
	}
	if len(offenders) > 0 {
		return false, fmt.Sprintf("event %q lacks a namespace and references no constant", offenders[0])
	}
	return true, "Emitted events are namespaced"
}
