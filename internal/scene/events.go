package scene

// Pointer event names dispatched by the overlay.
const (
	EventMouseOver = "mouseover"
	EventMouseOut  = "mouseout"
	EventMouseMove = "mousemove"
	EventClick     = "click"
)

// Event is delivered to mesh handlers. X and Y are canvas micro-pixels.
type Event struct {
	Type   string
	Target Mesh
	X, Y   float64
}

// Handler receives mesh events.
type Handler func(Event)

type dispatcher struct {
	handlers map[string][]Handler
}

func (d *dispatcher) on(event string, h Handler) {
	if d.handlers == nil {
		d.handlers = make(map[string][]Handler)
	}
	d.handlers[event] = append(d.handlers[event], h)
}

func (d *dispatcher) fire(e Event) {
	for _, h := range d.handlers[e.Type] {
		h(e)
	}
}
