package session

import "fmt"

var (
	ErrUnknownCommand = func(commandType string) error {
		return fmt.Errorf("unknown command type '%s'", commandType)
	}

	ErrWatcherAlreadyJoined = func(name string) error {
		return fmt.Errorf("watcher '%s' already joined", name)
	}

	ErrSessionClosed = fmt.Errorf("session is closed")
)
