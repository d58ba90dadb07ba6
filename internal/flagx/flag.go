// Package flagx lets several config loaders share os.Args: each one parses
// only the flags it owns.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps the flags named in allowed, plus their values, and drops
// everything else. "-name" and "--name" are the same flag, as in package flag.
// Both "-c conf.json" and "-c=conf.json" forms are understood; a following
// argument that starts with "-" is never taken as a value. Scanning stops at
// a bare "--".
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := names[flagName(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func flagName(s string) string {
	return strings.TrimLeft(s, "-")
}

// ConfigFileFlag returns the JSON config path given with -c or -config. When
// neither flag is present the value of envVar is used, which may be empty.
// The last occurrence of the flag wins.
func ConfigFileFlag(envVar string) string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(args)

	if path == "" && envVar != "" {
		path = os.Getenv(envVar)
	}
	return path
}
