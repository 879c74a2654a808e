package event

import "testing"

type ping struct{ n int }
type pong struct{ n int }

func TestBusDeliversNextDispatch(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e ping) { got = append(got, "ping") })
	Subscribe(b, func(e pong) { got = append(got, "pong") })

	Emit(b, pong{1})
	Emit(b, ping{1})
	Emit(b, pong{2})
	if b.Pending() != 3 {
		t.Fatalf("pending = %d", b.Pending())
	}
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatal("delivered before swap")
	}

	b.SwapBuffers()
	b.DispatchAll()
	// Types in first-emission order, emission order within a type.
	want := []string{"pong", "pong", "ping"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	// Delivered events are not repeated.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 3 {
		t.Fatalf("redelivered: %v", got)
	}
}

func TestEmitOnNilBus(t *testing.T) {
	var b *Bus
	Emit(b, ping{1})
}

func TestEmitDuringDispatch(t *testing.T) {
	b := NewBus()
	var pongs int
	Subscribe(b, func(e ping) { Emit(b, pong{e.n}) })
	Subscribe(b, func(pong) { pongs++ })

	Emit(b, ping{1})
	b.SwapBuffers()
	b.DispatchAll()
	if pongs != 0 {
		t.Fatal("event emitted during dispatch delivered in the same pass")
	}
	b.SwapBuffers()
	b.DispatchAll()
	if pongs != 1 {
		t.Fatalf("pongs = %d", pongs)
	}
}
