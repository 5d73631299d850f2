package pylontech

import (
	"context"
	"errors"
	"testing"
	"time"
)

// pwrResponse mimics one "pwr" reply of a two-module stack: command echo,
// a header without digits, one line per module with fifteen numeric fields
// (eight measurements, coulomb percentage, six timestamp fields), and the
// trailing prompt.
const pwrResponse = "pwr\r\n" +
	"Power Volt Curr Tempr Tlow Thigh Vlow Vhigh Base.St Volt.St Curr.St Temp.St Coulomb Time B.V.St\r\n" +
	"1 49735 0 22000 19000 19600 3316 3317 Charge Normal Normal Normal 93% 2019-06-14 14:00:20 Normal\r\n" +
	"2 49842 0 21500 19100 19500 3320 3322 Charge Normal Normal Normal 95% 2019-06-14 14:00:21 Normal\r\n" +
	"\n\rpylon>"

// readySession returns a session attached to a scripted console port.
func readySession(t *testing.T, port *scriptedPort) *Session {
	t.Helper()
	session := NewSession(&fakeOpener{ports: []*scriptedPort{port}}, testProfile())
	if err := session.Open("/dev/ttyUSB0", 115200); err != nil {
		t.Fatalf("Open err=%v", err)
	}
	return session
}

func TestReadTelemetry(t *testing.T) {
	port := &scriptedPort{replies: map[string][]byte{
		"pwr\r": []byte(pwrResponse),
	}}
	session := readySession(t, port)

	report, err := session.ReadTelemetry(context.Background(), 2)
	if err != nil {
		t.Fatalf("ReadTelemetry err=%v", err)
	}

	want := Report{
		{StateOfCharge: 93, Voltage: 49735, Current: 0, Temperature: 22000},
		{StateOfCharge: 95, Voltage: 49842, Current: 0, Temperature: 21500},
	}
	for i := range want {
		if report[i] != want[i] {
			t.Errorf("module %d: got %+v, want %+v", i, report[i], want[i])
		}
	}
	if got := port.writes[len(port.writes)-1]; got != "pwr\r" {
		t.Errorf("sent %q, want %q", got, "pwr\r")
	}
}

func TestReadTelemetry_NotConnected(t *testing.T) {
	session := NewSession(&fakeOpener{}, testProfile())

	_, err := session.ReadTelemetry(context.Background(), 1)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestReadTelemetry_AfterClose(t *testing.T) {
	port := &scriptedPort{}
	session := readySession(t, port)
	if err := session.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
	if !port.closed {
		t.Fatal("port not closed")
	}

	_, err := session.ReadTelemetry(context.Background(), 1)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestReadTelemetry_ShortReply(t *testing.T) {
	port := &scriptedPort{replies: map[string][]byte{
		"pwr\r": []byte(pwrResponse),
	}}
	session := readySession(t, port)

	// the scripted stack has two modules; asking for eight must fail loudly
	_, err := session.ReadTelemetry(context.Background(), 8)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if decodeErr.Got != 30 {
		t.Errorf("error carries got=%d, want 30", decodeErr.Got)
	}
}

func TestReadTelemetry_Cancelled(t *testing.T) {
	session := readySession(t, &scriptedPort{})
	session.Profile.ReportDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.ReadTelemetry(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReadStateOfCharge(t *testing.T) {
	port := &scriptedPort{replies: map[string][]byte{
		"pwr\r": []byte(pwrResponse),
	}}
	session := readySession(t, port)

	soc, err := session.ReadStateOfCharge(context.Background(), 2)
	if err != nil {
		t.Fatalf("ReadStateOfCharge err=%v", err)
	}
	if soc[0] != 93 || soc[1] != 95 {
		t.Fatalf("soc=%v, want [93 95]", soc)
	}
}
