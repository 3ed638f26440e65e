package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/transport/ws"
)

type WebSocketConfig struct {
	// Addr is the listen address; empty disables the server.
	Addr         string `json:"addr"`
	WriteTimeout string `json:"write_timeout"`
	QueueSize    int    `json:"queue_size"`
}

func (c *WebSocketConfig) validate() error {
	el := errors.NewErrorList()

	if c.WriteTimeout != "" {
		if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
			el.Add(fmt.Errorf("parsing write_timeout: %w", err))
		}
	}
	if c.QueueSize < 0 {
		el.Add(fmt.Errorf("queue_size must not be negative"))
	}

	return el.Err()
}

func (c *WebSocketConfig) buildServer(registry *game.Registry, bus ws.Subscriber, extra ...ws.ServerOpt) (*ws.Server, error) {
	opts := []ws.ServerOpt{ws.WithAddr(c.Addr)}
	if c.WriteTimeout != "" {
		d, err := time.ParseDuration(c.WriteTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing write_timeout: %w", err)
		}
		opts = append(opts, ws.WithWriteTimeout(d))
	}
	if c.QueueSize > 0 {
		opts = append(opts, ws.WithQueueSize(c.QueueSize))
	}
	return ws.NewServer(registry, bus, append(opts, extra...)...), nil
}
