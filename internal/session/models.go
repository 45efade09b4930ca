package session

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// Command types accepted by the session, over HTTP or a watcher socket.
const (
	CommandStart           = "Start"
	CommandPause           = "Pause"
	CommandReset           = "Reset"
	CommandSetExtraTime    = "SetExtraTime"
	CommandArmAutoStart    = "ArmAutoStart"
	CommandDisarmAutoStart = "DisarmAutoStart"
)

// Command is a single clock command. MoreDetails carries the typed
// payload for commands that need one.
type Command struct {
	Type        string
	MoreDetails interface{} `json:",omitempty"`
}

// ExtraTimeDetails is the payload for SetExtraTime.
type ExtraTimeDetails struct {
	Enabled bool
}

// OutboundMessage is the envelope sent to watchers.
type OutboundMessage struct {
	Type    string
	Payload interface{}
}

// inbound pairs a raw watcher message with its sender.
type inbound struct {
	watcher *watcher
	payload []byte
}

func decodeCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func decodeExtraTimeDetails(details interface{}) (ExtraTimeDetails, error) {
	var d ExtraTimeDetails
	if err := mapstructure.Decode(details, &d); err != nil {
		return ExtraTimeDetails{}, err
	}
	return d, nil
}
