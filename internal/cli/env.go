package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds the flags of cmd and all of its subcommands to
// environment variables. Flags of the root command (and of its "run" alias)
// use LEADS_<FLAG_NAME>, flags of other subcommands use
// LEADS_<COMMAND>_<FLAG_NAME>. Names are uppercased and dashes become
// underscores.
//
// For example:
//   - Flag "log-level" becomes environment variable "LEADS_LOG_LEVEL"
//   - Flag "limit" of "list" becomes environment variable "LEADS_LIST_LIMIT"
//
// Arguments take precedence over environment variables, which take precedence
// over default values. Usage strings are suffixed with the variable name.
func bindEnvVars(cmd *cobra.Command) {
	prefix := envPrefix(cmd)

	bind := func(flag *pflag.Flag) {
		bindFlagToEnv(flag, prefix)
	}

	cmd.Flags().VisitAll(bind)
	cmd.PersistentFlags().VisitAll(bind)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
}

func envPrefix(cmd *cobra.Command) string {
	if !cmd.HasParent() || cmd.Name() == "run" {
		return cmdName
	}

	return cmdName + "_" + cmd.Name()
}

// bindFlagToEnv binds a single flag to its corresponding environment variable.
func bindFlagToEnv(flag *pflag.Flag, prefix string) {
	envName := flagToEnvName(prefix, flag.Name)

	if !strings.Contains(flag.Usage, "$"+envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("err", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name.
// Example: "leads", "log-level" -> "LEADS_LOG_LEVEL".
func flagToEnvName(prefix, flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(prefix+"_"+flagName, "-", "_"))
}
