package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/texasholdem"
)

const playerBoxWidth = 30

func renderHand(number int, state *texasholdem.State, logs []*playable.LogMessage, width int) {
	pterm.DefaultSection.Printfln("Hand #%d", number)
	for _, msg := range logs {
		pterm.Println(formatLog(state, msg))
	}

	perRow := width / playerBoxWidth
	if perRow < 1 {
		perRow = 1
	}

	var rows [][]pterm.Panel
	var row []pterm.Panel
	for _, p := range state.Players {
		row = append(row, pterm.Panel{Data: playerInfo(p, p.Seat == state.ButtonSeat)})
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}

	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []pterm.Panel{{Data: boardInfo(state)}})
	if winners := winnerInfo(state); winners != "" {
		rows = append(rows, []pterm.Panel{{Data: winners}})
	}

	_ = pterm.DefaultPanel.WithPanels(rows).Render()
}

// formatLog replaces the {} placeholder with the name of the seated player
func formatLog(state *texasholdem.State, msg *playable.LogMessage) string {
	if len(msg.Seats) == 0 {
		return pterm.Gray(msg.Message)
	}

	name := "seat " + strconv.Itoa(msg.Seats[0])
	if p := state.Player(msg.Seats[0]); p != nil {
		name = p.Name
	}

	return strings.ReplaceAll(msg.Message, "{}", pterm.LightCyan(name))
}

func playerInfo(p *texasholdem.PlayerView, button bool) string {
	box := pterm.DefaultBox.WithHorizontalPadding(2)
	title := p.Name
	if button {
		title += " (D)"
	}

	var status string
	switch p.State {
	case texasholdem.PlayerStateFolded:
		status = pterm.LightRed("Folded")
	case texasholdem.PlayerStateLeft:
		status = pterm.Cyan("Out")
	default:
		status = pterm.LightGreen(p.State.String())
	}

	info := fmt.Sprintf("%s\nStack: %d\n%s", status, p.Stack, cards(p.Hand))
	if p.HandDescription != "" {
		info += "\n" + p.HandDescription
	}

	return box.WithTitle(title).WithTitleTopLeft().Sprint(info)
}

func boardInfo(state *texasholdem.State) string {
	board := cards(state.Community)
	for i, pot := range state.Pots {
		board += fmt.Sprintf(" | Pot %d: %d", i+1, pot.Total)
	}

	return pterm.DefaultBox.WithTitle(pterm.LightYellow("|BOARD|")).WithTitleTopCenter().Sprint(board)
}

func winnerInfo(state *texasholdem.State) string {
	if len(state.LastWinners) == 0 {
		return ""
	}

	lines := make([]string, len(state.LastWinners))
	for i, w := range state.LastWinners {
		if w.Description == "" {
			lines[i] = pterm.Sprintf("%s won %d", pterm.LightCyan(w.Name), w.Amount)
		} else {
			lines[i] = pterm.Sprintf("%s won %d with %s", pterm.LightCyan(w.Name), w.Amount, w.Description)
		}
	}

	box := pterm.DefaultBox.WithHorizontalPadding(4)
	return box.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprint(strings.Join(lines, "\n"))
}

func cards(h deck.Hand) string {
	if len(h) == 0 {
		return "-"
	}

	c := make([]string, len(h))
	for i, card := range h {
		c[i] = card.String()
	}

	return strings.Join(c, " ")
}

func renderStandings(played int, state *texasholdem.State) {
	players := make([]*texasholdem.PlayerView, len(state.Players))
	copy(players, state.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Stack > players[j].Stack
	})

	data := pterm.TableData{{"Place", "Seat", "Name", "Stack"}}
	for i, p := range players {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.Seat),
			p.Name,
			strconv.Itoa(p.Stack),
		})
	}

	pterm.DefaultSection.Printfln("Standings after %d hands", played)
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
