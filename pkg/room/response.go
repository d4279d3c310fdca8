package room

import (
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/texasholdem"
)

type tableStateResponse struct {
	Event texasholdem.EventType  `json:"event"`
	Seat  int                    `json:"seat"`
	State *texasholdem.State     `json:"state"`
	Logs  []*playable.LogMessage `json:"logs"`
}

type seatResponse struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

func newTableStateResponse(event texasholdem.EventType, seat int, state *texasholdem.State, logs []*playable.LogMessage) *playable.Response {
	return &playable.Response{
		Key: "tableState",
		Data: &tableStateResponse{
			Event: event,
			Seat:  seat,
			State: state.MaskedFor(seat),
			Logs:  logs,
		},
	}
}

func newSeatResponse(ctx string, seat int, name string) *playable.Response {
	res := playable.OK(ctx)
	res.Data = &seatResponse{
		Seat: seat,
		Name: name,
	}

	return res
}
