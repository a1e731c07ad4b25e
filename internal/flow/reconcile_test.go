package flow

import (
	"errors"
	"math"
	"testing"
)

func TestComputeAccept(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		invalid int64
		want    int64
		wantErr error
	}{
		{"no defects", 50, 0, 50, nil},
		{"some defects", 100, 5, 95, nil},
		{"all defective", 10, 10, 0, nil},
		{"invalid exceeds total", 10, 11, 0, ErrInvalidExceedsTotal},
		{"negative invalid", 10, -1, 0, ErrNegativeCount},
		{"negative total", -1, 0, 0, ErrNegativeCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAccept(tt.total, tt.invalid)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("accept = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeSendFresh(t *testing.T) {
	res, err := ComputeSend(100, 0, 0, 60, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.NewSent != 60 || res.NewInvalid != 0 || res.Residue != 40 {
		t.Fatalf("got %+v", res)
	}
	if res.IsComplete || res.Status != StatusPartiallySent {
		t.Fatalf("expected partial send, got %+v", res)
	}
}

func TestComputeSendExceedsAvailability(t *testing.T) {
	// 60 sent + 50 invalid = 110 > 100 available.
	_, err := ComputeSend(100, 0, 0, 60, 50)
	if !errors.Is(err, ErrInsufficientAvailable) {
		t.Fatalf("error = %v, want ErrInsufficientAvailable", err)
	}
}

func TestComputeSendCumulative(t *testing.T) {
	// First send of 60, then 30 sent plus 10 invalid drains the pack exactly.
	first, err := ComputeSend(100, 0, 0, 60, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ComputeSend(100, first.NewSent, first.NewInvalid, 30, 10)
	if err != nil {
		t.Fatal(err)
	}
	if second.NewSent != 90 || second.NewInvalid != 10 || second.Residue != 0 {
		t.Fatalf("got %+v", second)
	}
	if !second.IsComplete || second.Status != StatusFullySent {
		t.Fatalf("expected fully sent at residue zero, got %+v", second)
	}

	// A third send of any amount must fail.
	_, err = ComputeSend(100, second.NewSent, second.NewInvalid, 1, 0)
	if !errors.Is(err, ErrInsufficientAvailable) {
		t.Fatalf("error = %v, want ErrInsufficientAvailable", err)
	}
}

func TestComputeSendConservation(t *testing.T) {
	// sent + invalid + residue must equal total after every step.
	total := int64(250)
	var sent, invalid int64
	steps := []struct{ send, inv int64 }{
		{100, 0}, {50, 25}, {0, 5}, {70, 0},
	}
	for i, st := range steps {
		res, err := ComputeSend(total, sent, invalid, st.send, st.inv)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.NewSent+res.NewInvalid+res.Residue != total {
			t.Fatalf("step %d: conservation violated: %+v", i, res)
		}
		sent, invalid = res.NewSent, res.NewInvalid
	}
	if total-sent-invalid != 0 {
		t.Fatalf("pack not drained: sent=%d invalid=%d", sent, invalid)
	}
}

func TestComputeSendPure(t *testing.T) {
	a, err := ComputeSend(100, 20, 5, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeSend(100, 20, 5, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("identical inputs gave different results: %+v vs %+v", a, b)
	}
}

func TestComputeSendHugeCountsRejected(t *testing.T) {
	// Requests near the int64 ceiling must be rejected, not wrapped into a
	// negative residue.
	huge := int64(1) << 62
	for _, args := range [][5]int64{
		{100, 0, 0, huge, huge},
		{100, 0, 0, math.MaxInt64, 1},
		{100, 0, 0, math.MaxInt64, math.MaxInt64},
		{math.MaxInt64, math.MaxInt64, math.MaxInt64, 1, 0},
	} {
		res, err := ComputeSend(args[0], args[1], args[2], args[3], args[4])
		if !errors.Is(err, ErrInsufficientAvailable) {
			t.Fatalf("ComputeSend(%v) = %+v, %v, want ErrInsufficientAvailable", args, res, err)
		}
	}
}

func TestComputeSendOverCommittedHistory(t *testing.T) {
	// A history where sent+invalid already exceeds the total is corrupt and
	// must reject every further send, including a zero one.
	_, err := ComputeSend(100, 90, 20, 1, 0)
	if !errors.Is(err, ErrInsufficientAvailable) {
		t.Fatalf("error = %v, want ErrInsufficientAvailable", err)
	}
	_, err = ComputeSend(100, 90, 20, 0, 0)
	if !errors.Is(err, ErrInsufficientAvailable) {
		t.Fatalf("error = %v, want ErrInsufficientAvailable", err)
	}
}

func TestComputeSendNegativeInputs(t *testing.T) {
	for _, args := range [][5]int64{
		{100, 0, 0, -1, 0},
		{100, 0, 0, 0, -1},
		{100, -1, 0, 1, 0},
		{100, 0, -1, 1, 0},
	} {
		_, err := ComputeSend(args[0], args[1], args[2], args[3], args[4])
		if !errors.Is(err, ErrNegativeCount) {
			t.Fatalf("ComputeSend(%v) error = %v, want ErrNegativeCount", args, err)
		}
	}
}
