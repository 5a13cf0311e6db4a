// Package distrib distributes sweep tasks to remote workers over a
// push/pull pipeline. A coordinator fans tasks out round-robin and
// collects one result per task; workers evaluate tasks against a local
// copy of the graph.
package distrib

import (
	"io"
	"time"
)

// Socket is a messaging socket that can send and receive framed
// messages. It abstracts the underlying transport so coordinators and
// workers can run against mangos sockets or mocks.
type Socket interface {
	io.Closer
	Send([]byte) error
	Recv() ([]byte, error)
	SetRecvDeadline(d time.Duration) error
	SetSendDeadline(d time.Duration) error
}

// PipelineSocket is a push or pull socket. Either end of the pipeline
// may bind or connect, so both operations are available.
type PipelineSocket interface {
	Socket
	Listen(addr string) error
	Dial(addr string) error
}

// SocketFactory creates pipeline sockets. Implementations provide real
// mangos sockets or in-memory mocks for testing.
type SocketFactory interface {
	NewPushSocket() (PipelineSocket, error)
	NewPullSocket() (PipelineSocket, error)
}
