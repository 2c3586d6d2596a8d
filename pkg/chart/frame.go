package chart

// Frame is one rendered step of the chart. The pane images are PNG
// bytes; they marshal to base64 strings on the websocket, which is what
// the viewer page feeds into data URIs.
type Frame struct {
	Step     int    `json:"step"`
	Title    string `json:"title"`
	NetWorth []byte `json:"netWorth"`
	Price    []byte `json:"price"`
}

// Display receives rendered frames. The display server in pkg/display
// implements this; a nil display turns the chart into a pure renderer.
type Display interface {
	Broadcast(frame *Frame)
	Close() error
}
