// Package flag provides command line flag types.
package flag

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/set"
)

// Output formats supported by the format flags.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
)

// OneOf is a command line flag that accepts one of multiple possible values.
// Values are matched case-insensitively.
type OneOf struct {
	Val       string
	supported set.Set[string]
	flagName  string
	usage     string
}

func NewOneOfFlag(flagName, defaultVal, usage string, supportedVals ...string) *OneOf {
	for _, v := range supportedVals {
		if !isLower(v) {
			panic(fmt.Sprintf("oneOf flag values must be lowercase, got: %q", v))
		}
	}

	return &OneOf{
		flagName:  flagName,
		Val:       defaultVal,
		supported: set.From(supportedVals),
		usage:     usage,
	}
}

// NewFormatFlag returns a --format flag accepting plain and json.
func NewFormatFlag() *OneOf {
	return NewOneOfFlag("format", FormatPlain, "output format", FormatPlain, FormatJSON)
}

func (f *OneOf) Set(val string) error {
	sl := strings.ToLower(val)
	if !f.supported.Contains(sl) {
		return fmt.Errorf("%s must be one of: %s",
			f.flagName, strings.Join(set.Sorted(f.supported), ", "))
	}

	f.Val = sl
	return nil
}

func (f *OneOf) Value() string {
	return f.Val
}

func (f *OneOf) String() string {
	return f.Val
}

func (f *OneOf) Type() string {
	return strings.ToUpper(f.flagName)
}

// Name returns the name of the flag.
func (f *OneOf) Name() string {
	return f.flagName
}

func (f *OneOf) Usage(highlightFn func(a ...any) string) string {
	vals := set.Sorted(f.supported)
	for i, v := range vals {
		vals[i] = highlightFn(v)
	}

	return fmt.Sprintf("%s\none of: %s", f.usage, strings.Join(vals, ", "))
}

func (f *OneOf) RegisterFlagCompletion(cmd *cobra.Command) error {
	return cmd.RegisterFlagCompletionFunc(f.flagName, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return set.Sorted(f.supported), cobra.ShellCompDirectiveNoFileComp
	})
}

func isLower(s string) bool {
	for _, r := range s {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
