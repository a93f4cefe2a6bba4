// Package cli implements the jillion command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/JCVenterInstitute/jillion-go/internal/logutil"
	"github.com/JCVenterInstitute/jillion-go/pkg/jillion"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

// VERSION of jillion.
var VERSION = jillion.Version()

var log *logging.Logger

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "jillion",
	Short: "Pairwise sequence alignment toolkit",
	Long: fmt.Sprintf(`jillion: pairwise sequence alignment toolkit

Version: v%s

Global (Needleman-Wunsch) and local (Smith-Waterman) alignment with affine
gap penalties, one-against-many batch alignment with an optional k-mer
prefilter, and primer trimming.

Input files are FASTA or FASTQ, plain or compressed, "-" for stdin.
Settings are read from a TOML file given with -c/--config; flags override it.
`, VERSION),
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log = logutil.New("jillion", nil, true)

	RootCmd.PersistentFlags().StringP("config", "c", "",
		formatFlagUsage(`TOML configuration file. Flags override its values.`))
	RootCmd.PersistentFlags().IntP("threads", "j", -1,
		formatFlagUsage(`Number of CPUs to use. 0 for all, negative to take the value from the config file.`))
	RootCmd.PersistentFlags().BoolP("quiet", "", false,
		formatFlagUsage(`Do not print any verbose information. But you can write them to file with --log.`))
	RootCmd.PersistentFlags().StringP("log", "", "",
		formatFlagUsage(`Log file.`))

	RootCmd.SetUsageTemplate(usageTemplate(""))
}

func usageTemplate(s string) string {
	return fmt.Sprintf(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}} %s{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`, s)
}
