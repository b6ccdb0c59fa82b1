package cmd

import (
	"fmt"

	"github.com/jsphweid/chordcoach/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Lists MIDI inputs",
	Long:  `Lists MIDI inputs. Either the number or the name can be passed to practice --port.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		defer midi.Close()
		out := cmd.OutOrStdout()
		ports := midi.Ports()
		if len(ports) == 0 {
			fmt.Fprintln(out, "no midi inputs found")
			return
		}
		for i, name := range ports {
			fmt.Fprintf(out, "%d: %s\n", i, name)
		}
	},
}
