package cmd

import (
	"io"

	"github.com/jsphweid/chordcoach/config"
	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/practice"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	cfg        = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "chordcoach",
	Short: "Chord practice against a lesson plan",
	Long: `chordcoach listens to a MIDI keyboard, names the chords being held and
scores them against a lesson plan of target chords.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Verbose = verbose
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CHORDCOACH_CONFIG or ~/.config/chordcoach/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func settings() practice.Settings {
	return practice.Settings{
		Window:  cfg.DebounceWindow(),
		Options: cfg.SessionOptions(),
	}
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// ExecuteArgs runs one command line with output going to out.
func ExecuteArgs(args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	return rootCmd.Execute()
}
