package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/talgya/graindeer/internal/engine"
	"github.com/talgya/graindeer/internal/entropy"
)

// zeroNoiseYear is 2017 from height 1, one deer, no gas, with every noise
// draw equal to zero: only the seasonal formulas contribute.
const zeroNoiseYear = `Month,Year,Temp (C),Precip (cm),Height (cm),NumDeer
0,2017,-0.732509,19.184402,9.301536,1
1,2017,2.143258,26.016307,25.137788,2
2,2017,7.124233,29.960710,38.188767,3
3,2017,12.875767,29.960710,36.345040,4
4,2017,17.856742,26.016307,31.324800,5
5,2017,20.732509,19.184402,24.978339,6
6,2017,20.732509,11.295598,17.361099,7
7,2017,17.856742,4.463693,8.501410,6
8,2017,12.875767,0.519290,1.659317,5
9,2017,7.124233,0.519290,1.477496,4
10,2017,2.143258,4.463693,5.074024,3
11,2017,-0.732509,11.295598,7.528592,2
`

func TestCSV_ZeroNoiseYear(t *testing.T) {
	cfg := engine.Config{
		Agents:      3,
		StartMonth:  0,
		StartYear:   2017,
		StopYear:    2018,
		GrainHeight: 1,
		Deer:        1,
	}

	var buf bytes.Buffer
	sim, err := engine.New(cfg, entropy.Fixed(0), NewCSV(&buf))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := sim.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := buf.String(); got != zeroNoiseYear {
		t.Fatalf("csv mismatch\ngot:\n%s\nwant:\n%s", got, zeroNoiseYear)
	}
}

func TestCSV_GasColumn(t *testing.T) {
	var buf bytes.Buffer
	c := NewCSV(&buf)
	if err := c.Header(true); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := c.Row(engine.Snapshot{Month: 3, Year: 2019, Temp: 32, Precip: 1, Height: 0, Deer: 2, Gas: -12.5}); err != nil {
		t.Fatalf("row: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if want := "Month,Year,Temp (C),Precip (cm),Height (cm),NumDeer,CO2 Over Baseline (%)"; lines[0] != want {
		t.Fatalf("header = %q, want %q", lines[0], want)
	}
	if want := "3,2019,0.000000,2.540000,0.000000,2,-12.500000"; lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder reported a last row")
	}
	_ = r.Header(true)
	_ = r.Row(engine.Snapshot{Step: 1})
	_ = r.Row(engine.Snapshot{Step: 2})

	if !r.WithGas() {
		t.Fatal("with gas = false, want true")
	}
	if rows := r.Rows(); len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if last, _ := r.Last(); last.Step != 2 {
		t.Fatalf("last step = %d, want 2", last.Step)
	}
}

type failingSink struct{ Discard }

func (failingSink) Row(engine.Snapshot) error { return errors.New("broken pipe") }

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	var r Recorder
	m := Multi{failingSink{}, &r}

	if err := m.Header(false); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := m.Row(engine.Snapshot{Step: 1}); err == nil {
		t.Fatal("expected error from failing sink")
	}
	if len(r.Rows()) != 1 {
		t.Fatalf("recorder rows = %d, want 1", len(r.Rows()))
	}
}
