package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Matches ${NAME} and ${NAME:default}. The colon is captured so an empty
// default (${NAME:}) can be told apart from no default at all.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars replaces every ${NAME} or ${NAME:default} reference in input.
// A set variable wins over the default; an unset variable without a default
// is left in place and reported in the returned error.
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	result := envRef.ReplaceAllStringFunc(input, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		name, hasDefault, fallback := m[1], m[2] == ":", m[3]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return fallback
		}
		missing = append(missing, fmt.Errorf("environment variable not defined: %s", name))
		return ref
	})

	return result, errors.Join(missing...)
}
