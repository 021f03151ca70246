package audio

import (
	"bytes"
	"testing"
)

func TestTriggerRingOrder(t *testing.T) {
	r := newTriggerRing(8)
	for i := 0; i < 5; i++ {
		if !r.push(Trigger{Pad: i}) {
			t.Fatalf("push %d failed", i)
		}
	}
	var got []int
	r.drain(func(tr Trigger) { got = append(got, tr.Pad) })
	for i, pad := range got {
		if pad != i {
			t.Errorf("entry %d: want pad %d, got %d", i, i, pad)
		}
	}
	if len(got) != 5 {
		t.Errorf("want 5 entries, got %d", len(got))
	}
}

func TestTriggerRingDropsNewestOnOverflow(t *testing.T) {
	r := newTriggerRing(4)
	for i := 0; i < 4; i++ {
		if !r.push(Trigger{Pad: i}) {
			t.Fatalf("push %d failed", i)
		}
	}
	if r.push(Trigger{Pad: 99}) {
		t.Error("push into full ring should fail")
	}
	var got []int
	r.drain(func(tr Trigger) { got = append(got, tr.Pad) })
	if len(got) != 4 || got[3] == 99 {
		t.Errorf("overflow entry leaked into ring: %v", got)
	}
}

func TestTxRingTruncatesOverflow(t *testing.T) {
	r := newTxRing(8)
	r.Write([]byte{1, 2, 3, 4, 5, 6})
	r.Write([]byte{7, 8, 9, 10}) // only 2 fit
	var buf [16]byte
	n, _ := r.Read(buf[:])
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if n != 8 || !bytes.Equal(buf[:n], want) {
		t.Errorf("want %v, got %v", want, buf[:n])
	}
}

func TestEventQueueOverwritesOldest(t *testing.T) {
	var q eventQueue
	for i := 0; i < eventQueueSize+3; i++ {
		q.push(Event{Kind: EventKind(i)})
	}
	if q.pending() != eventQueueSize {
		t.Fatalf("want %d pending, got %d", eventQueueSize, q.pending())
	}
	var dst [eventQueueSize]Event
	n := q.pop(dst[:])
	if n != eventQueueSize {
		t.Fatalf("want %d popped, got %d", eventQueueSize, n)
	}
	// The three oldest were overwritten; order of the rest is preserved.
	for i := 0; i < n; i++ {
		if want, got := EventKind(i+3), dst[i].Kind; want != got {
			t.Errorf("event %d: want kind %d, got %d", i, want, got)
		}
	}
}

func TestEventEncodeLayout(t *testing.T) {
	ev := Event{Kind: EventKitLoaded, PadCount: 3, PadMask: 0x010203}
	copy(ev.Name[:], "house")
	var buf [32]byte
	ev.Encode(buf[:])
	if buf[0] != byte(EventKitLoaded) || buf[1] != 3 {
		t.Errorf("bad header bytes: %v", buf[:2])
	}
	if buf[2] != 0x03 || buf[3] != 0x02 || buf[4] != 0x01 {
		t.Errorf("bad mask bytes: %v", buf[2:5])
	}
	if string(buf[8:13]) != "house" {
		t.Errorf("bad name: %q", buf[8:13])
	}
}
