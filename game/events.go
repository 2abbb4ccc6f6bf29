package game

// Events is the host-side listener registry. The host dispatches window and
// pointer input through it; instances subscribe while they are live.
//
// Listeners run synchronously in registration order. Every On* method returns
// an unsubscribe func; calling it more than once is harmless.
type Events struct {
	nextID int

	resize       listeners[func(Size)]
	pointerMove  listeners[func(x, y float64)]
	pointerLeave listeners[func()]
	pointerPress listeners[func(x, y float64)]
}

// NewEvents creates an empty registry.
func NewEvents() *Events {
	return &Events{}
}

type listener[F any] struct {
	id int
	fn F
}

type listeners[F any] struct {
	list []listener[F]
}

func (l *listeners[F]) add(id int, fn F) func() {
	l.list = append(l.list, listener[F]{id: id, fn: fn})
	return func() {
		for i, e := range l.list {
			if e.id == id {
				l.list = append(l.list[:i:i], l.list[i+1:]...)
				return
			}
		}
	}
}

// snapshot copies the list so listeners can unsubscribe during dispatch.
func (l *listeners[F]) snapshot() []listener[F] {
	return append([]listener[F](nil), l.list...)
}

func (e *Events) id() int {
	e.nextID++
	return e.nextID
}

// OnResize subscribes to display size changes.
func (e *Events) OnResize(fn func(Size)) func() {
	return e.resize.add(e.id(), fn)
}

// OnPointerMove subscribes to pointer moves in display coordinates.
func (e *Events) OnPointerMove(fn func(x, y float64)) func() {
	return e.pointerMove.add(e.id(), fn)
}

// OnPointerLeave subscribes to the pointer leaving the display.
func (e *Events) OnPointerLeave(fn func()) func() {
	return e.pointerLeave.add(e.id(), fn)
}

// OnPointerPress subscribes to primary button presses in display coordinates.
func (e *Events) OnPointerPress(fn func(x, y float64)) func() {
	return e.pointerPress.add(e.id(), fn)
}

// DispatchResize notifies resize listeners.
func (e *Events) DispatchResize(s Size) {
	for _, l := range e.resize.snapshot() {
		l.fn(s)
	}
}

// DispatchPointerMove notifies pointer move listeners.
func (e *Events) DispatchPointerMove(x, y float64) {
	for _, l := range e.pointerMove.snapshot() {
		l.fn(x, y)
	}
}

// DispatchPointerLeave notifies pointer leave listeners.
func (e *Events) DispatchPointerLeave() {
	for _, l := range e.pointerLeave.snapshot() {
		l.fn()
	}
}

// DispatchPointerPress notifies pointer press listeners.
func (e *Events) DispatchPointerPress(x, y float64) {
	for _, l := range e.pointerPress.snapshot() {
		l.fn(x, y)
	}
}

// Count returns the total number of subscribed listeners.
func (e *Events) Count() int {
	return len(e.resize.list) + len(e.pointerMove.list) +
		len(e.pointerLeave.list) + len(e.pointerPress.list)
}
