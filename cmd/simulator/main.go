package main

import (
	"flag"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"holdem-server/internal/config"
	"holdem-server/internal/rng"
	"holdem-server/internal/util"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/equity"
	"holdem-server/pkg/playable/poker/texasholdem"
)

const handTimeout = time.Minute

var (
	players = flag.Int("players", 4, "number of bots at the table")
	hands   = flag.Int("hands", 20, "maximum number of hands to play")
	seed    = flag.Int64("seed", 0, "seed for shuffles and bots, 0 picks one at random")
	trials  = flag.Int("trials", 1000, "Monte Carlo trials per equity estimate")
	quiet   = flag.Bool("quiet", false, "only print the final standings")
)

func main() {
	flag.Parse()
	logrus.SetLevel(logrus.WarnLevel)

	width := 80
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	} else {
		pterm.DisableStyling()
	}

	s := *seed
	if s == 0 {
		s = rng.Seed(nil)
	}

	cfg := config.Instance()
	opts := cfg.TableOptions()
	opts.SettleDelay = 0
	opts.BotDelay = 0
	opts.AutoStart = false
	if opts.MaxPlayers < *players {
		opts.MaxPlayers = *players
	}

	estimator := equity.New(append(cfg.EquityOptions(s), equity.WithTrials(*trials))...)
	table, err := texasholdem.NewTable(logrus.StandardLogger(), opts,
		texasholdem.WithSeed(s),
		texasholdem.WithEstimator(estimator),
	)
	if err != nil {
		pterm.Fatal.Println(err)
	}

	for i := 0; i < *players; i++ {
		name := util.GetUniqueName(func(name string) bool {
			_, err := table.SeatOf(name)
			return err == nil
		})

		if _, err := table.JoinBot(name, 0); err != nil {
			pterm.Fatal.Println(err)
		}
	}

	events := make(chan texasholdem.Event, 4096)
	unsubscribe := table.Subscribe(func(e texasholdem.Event) {
		select {
		case events <- e:
		default:
		}
	})

	pterm.DefaultHeader.WithFullWidth().Println("Texas Hold'em Simulator")
	pterm.Info.Printfln("%d bots, seed %d", *players, s)

	played := 0
	for played < *hands && table.StartHand() {
		played++

		state, logs, ok := waitForHand(events)
		if !ok {
			pterm.Error.Printfln("hand %d did not finish within %s", played, handTimeout)
			break
		}

		if !*quiet {
			renderHand(played, state, logs, width)
		}
	}

	unsubscribe()
	table.Close()

	renderStandings(played, table.State())
}

// waitForHand collects events until the current hand ends
func waitForHand(events <-chan texasholdem.Event) (*texasholdem.State, []*playable.LogMessage, bool) {
	timeout := time.After(handTimeout)
	var logs []*playable.LogMessage
	for {
		select {
		case e := <-events:
			logs = append(logs, e.Logs...)
			if e.Type == texasholdem.EventHandEnded {
				return e.State, logs, true
			}
		case <-timeout:
			return nil, logs, false
		}
	}
}
