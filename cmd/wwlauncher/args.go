package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// builtinFlags are added by cobra at execution time and are not yet in the
// flag sets when arguments are partitioned.
var builtinFlags = map[string]bool{
	"--help":    true,
	"-h":        true,
	"--version": true,
}

// partitionArgs splits raw arguments into those the root command knows and
// the rest, which are passed through to the game. Subcommand invocations,
// including those preceded by persistent flags, are returned untouched.
// Everything after "--" is passed through.
func partitionArgs(root *cobra.Command, args []string) (known, extra []string) {
	if len(args) == 0 {
		return nil, nil
	}
	if invokesSubcommand(root, args) {
		return args, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			extra = append(extra, args[i+1:]...)
			break
		}
		if builtinFlags[arg] {
			known = append(known, arg)
			continue
		}

		f, inline := lookupFlag(root, arg)
		if f == nil {
			extra = append(extra, arg)
			continue
		}

		known = append(known, arg)
		if !inline && needsValue(f) && i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}
	return known, extra
}

// invokesSubcommand skips leading launcher flags and their values and
// reports whether the first positional token names a subcommand.
func invokesSubcommand(root *cobra.Command, args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return false
		}
		if builtinFlags[arg] {
			continue
		}
		if !strings.HasPrefix(arg, "-") {
			return isSubcommand(root, arg)
		}
		f, inline := lookupFlag(root, arg)
		if f == nil {
			return false
		}
		if !inline && needsValue(f) {
			i++
		}
	}
	return false
}

func isSubcommand(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// lookupFlag resolves "--name", "--name=value" and two-character "-x"
// shorthands against the root's flags. Single-dash long tokens such as
// "-windowed" are game options, never ours.
func lookupFlag(root *cobra.Command, arg string) (f *pflag.Flag, inline bool) {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name := arg[2:]
		if i := strings.IndexByte(name, '='); i >= 0 {
			name, inline = name[:i], true
		}
		if f = root.Flags().Lookup(name); f == nil {
			f = root.PersistentFlags().Lookup(name)
		}
		return f, inline
	case len(arg) == 2 && arg[0] == '-' && arg[1] != '-':
		short := arg[1:]
		if f = root.Flags().ShorthandLookup(short); f == nil {
			f = root.PersistentFlags().ShorthandLookup(short)
		}
		return f, false
	default:
		return nil, false
	}
}

// needsValue reports whether the flag consumes the following argument.
func needsValue(f *pflag.Flag) bool {
	return f.NoOptDefVal == "" && f.Value.Type() != "bool"
}
