package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/jsphweid/chordcoach/lesson"
	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/midi"
	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/practice"
	"github.com/jsphweid/chordcoach/session"
	"github.com/spf13/cobra"
)

var (
	lessonPath string
	portName   string
	watch      bool
)

func init() {
	practiceCmd.Flags().StringVarP(&lessonPath, "lesson", "l", "", "lesson file (.mid, .midi or .toml)")
	practiceCmd.Flags().StringVarP(&portName, "port", "p", "", "midi input number or name (default $CHORDCOACH_PORT or the first input)")
	practiceCmd.Flags().BoolVarP(&watch, "watch", "w", false, "restart when the lesson file changes")
	_ = practiceCmd.MarkFlagRequired("lesson")
	rootCmd.AddCommand(practiceCmd)
}

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practices a lesson on a live keyboard",
	Long: `Practices a lesson on a live keyboard. While it runs, type p to pause
or resume, s to skip the current chord, r to start over and q to quit, each
followed by enter.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return practiceLive(cmd.Context(), cmd.OutOrStdout(), os.Stdin)
	},
}

// current is the live session midi input and keyboard commands go to.
type current struct {
	mu   sync.Mutex
	live *practice.Live
}

func (c *current) set(l *practice.Live) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = l
}

func (c *current) get() *practice.Live {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func practiceLive(ctx context.Context, out io.Writer, in io.Reader) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	spread := cfg.Lesson.ChordSpread.Duration
	l, err := lesson.Load(lessonPath, spread)
	if err != nil {
		return err
	}

	port := portName
	if port == "" {
		port = cfg.Input.Port
	}
	defer midi.Close()
	input, err := midi.Open(port)
	if err != nil {
		return err
	}

	var cur current
	stopListening, err := midi.Listen(input, func(ev model.RawEvent) {
		if live := cur.get(); live != nil {
			_ = live.Feed(ev)
		}
	})
	if err != nil {
		return err
	}
	defer stopListening()

	go readCommands(in, &cur, quit)

	reloads := make(chan *lesson.Lesson, 1)
	if watch {
		go func() {
			err := lesson.Watch(ctx, lessonPath, spread, cfg.Lesson.ReloadQuiet.Duration, func(next *lesson.Lesson, err error) {
				if err != nil || len(next.Targets) == 0 {
					return
				}
				// only the newest version matters
				select {
				case <-reloads:
				default:
				}
				reloads <- next
			})
			if err != nil {
				log.LESSON.Printf("%v", err)
			}
		}()
	}

	for {
		live, err := practice.NewLive(l.Targets, settings())
		if err != nil {
			return err
		}
		live.Subscribe(newPrinter(out).Print)
		cur.set(live)

		runCtx, cancel := context.WithCancel(ctx)
		var next *lesson.Lesson
		watching := make(chan struct{})
		go func() {
			defer close(watching)
			select {
			case next = <-reloads:
				cancel()
			case <-runCtx.Done():
			}
		}()

		state, err := live.Run(runCtx)
		cancel()
		<-watching
		cur.set(nil)

		if state.Phase == session.Completed {
			printReport(out, state)
			return nil
		}
		if next != nil {
			log.LESSON.Printf("%s changed, starting over", lessonPath)
			l = next
			continue
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func readCommands(in io.Reader, cur *current, quit func()) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "q" {
			quit()
			return
		}
		live := cur.get()
		if live == nil {
			continue
		}
		var err error
		switch cmd {
		case "p":
			err = live.Do(func(e *session.Evaluator) error {
				if e.Phase() == session.Paused {
					return e.Resume()
				}
				return e.Pause()
			})
		case "s":
			err = live.Do(func(e *session.Evaluator) error {
				return e.Skip()
			})
		case "r":
			err = live.Do(func(e *session.Evaluator) error {
				e.Restart()
				return e.Start()
			})
		case "":
		default:
			log.CLI.Printf("unknown command %q", cmd)
		}
		if err != nil {
			log.CLI.Printf("%s: %v", cmd, err)
		}
	}
}
