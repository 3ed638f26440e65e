package ws

import "time"

type ServerOpt func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOpt {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithWriteTimeout bounds how long a single frame write may take.
func WithWriteTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// WithQueueSize sets how many frames a slow stream may fall behind before
// frames are dropped.
func WithQueueSize(n int) ServerOpt {
	return func(s *Server) {
		s.queueSize = n
	}
}

func WithClock(now func() time.Time) ServerOpt {
	return func(s *Server) {
		s.now = now
	}
}

// WithArchive serves price and event history from a durable archive.
func WithArchive(a Archive) ServerOpt {
	return func(s *Server) {
		s.archive = a
	}
}

func WithAuditTrail(a AuditTrail) ServerOpt {
	return func(s *Server) {
		s.audit = a
	}
}

// WithClocks reports which games are ticking in listings and stats.
func WithClocks(c Clocks) ServerOpt {
	return func(s *Server) {
		s.clocks = c
	}
}
