package device

import (
	"bytes"
	"testing"

	"github.com/rcornwell/mipsdiff/bus"
)

func TestUartTransmitAndDrain(t *testing.T) {
	u := NewUart8250()

	for _, c := range []byte("hi\n") {
		if err := u.Write(uartTHR, bus.BusInfo{Size: 1, WriteEnable: 0x1}, uint32(c)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	lsr, err := u.Read(uartLSR, bus.BusInfo{Size: 1})
	if err != nil {
		t.Fatalf("read lsr: %v", err)
	}
	if lsr&uartLSRTHRE == 0 || lsr&uartLSRTEMT == 0 {
		t.Errorf("expected THRE and TEMT set, got %#x", lsr)
	}

	got := u.DrainTX()
	if !bytes.Equal(got, []byte("hi\n")) {
		t.Errorf("got tx %q, want %q", got, "hi\n")
	}

	if got := u.DrainTX(); len(got) != 0 {
		t.Errorf("expected drain to empty the fifo, got %q", got)
	}
}
