package clix

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ParseLimit reads the "limit" flag, clamping non-positive values to def.
func ParseLimit(flags *pflag.FlagSet, def int) int {
	limit, _ := flags.GetInt("limit")
	if limit <= 0 {
		limit = def
	}
	return limit
}

// Confirm prints prompt and reads one line from in. Only "y" or "yes"
// (case-insensitive) count as consent.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
