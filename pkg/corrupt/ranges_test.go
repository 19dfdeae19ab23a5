package corrupt_test

import (
	"errors"
	"testing"

	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

func Test_ParseRange(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in      string
		want    corrupt.Range
		wantErr bool
	}{
		{in: "0:64", want: corrupt.Range{From: 0, Len: 64}},
		{in: " 3 : 5 ", want: corrupt.Range{From: 3, Len: 5}},
		{in: "16B:4B", want: corrupt.Range{From: 128, Len: 32}},
		{in: "0x10B:0x8", want: corrupt.Range{From: 128, Len: 8}},
		{in: "8:0", wantErr: true},
		{in: "8", wantErr: true},
		{in: "a:8", wantErr: true},
		{in: "-1:8", wantErr: true},
		{in: "0:99999999999999999999", wantErr: true},
		{in: "0:3000000000000000000B", wantErr: true},
	} {
		got, err := corrupt.ParseRange(tt.in)
		if tt.wantErr {
			if !errors.Is(err, corrupt.ErrConfig) {
				t.Errorf("ParseRange(%q) err=%v, want ErrConfig", tt.in, err)
			}

			continue
		}

		if err != nil {
			t.Errorf("ParseRange(%q): %v", tt.in, err)

			continue
		}

		if got != tt.want {
			t.Errorf("ParseRange(%q)=%+v, want=%+v", tt.in, got, tt.want)
		}

		again, err := corrupt.ParseRange(got.String())
		if err != nil || again != got {
			t.Errorf("ParseRange(%q.String())=(%+v, %v), want=%+v", tt.in, again, err, got)
		}
	}
}

func Test_Range_Clamp(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name      string
		r         corrupt.Range
		bufLen    uint64
		start     uint64
		end       uint64
		wantValid bool
	}{
		{name: "inside", r: corrupt.Range{From: 2, Len: 4}, bufLen: 16, start: 2, end: 6, wantValid: true},
		{name: "past end", r: corrupt.Range{From: 10, Len: 100}, bufLen: 16, start: 10, end: 16, wantValid: true},
		{name: "overflowing len", r: corrupt.Range{From: 10, Len: ^uint64(0)}, bufLen: 16, start: 10, end: 16, wantValid: true},
		{name: "outside", r: corrupt.Range{From: 16, Len: 4}, bufLen: 16},
		{name: "empty buffer", r: corrupt.Range{From: 0, Len: 4}, bufLen: 0},
	} {
		start, end, ok := tt.r.Clamp(tt.bufLen)
		if ok != tt.wantValid || start != tt.start || end != tt.end {
			t.Errorf("%s: Clamp(%d)=(%d, %d, %v), want=(%d, %d, %v)",
				tt.name, tt.bufLen, start, end, ok, tt.start, tt.end, tt.wantValid)
		}
	}
}

func Test_NewRange_Returns_ErrConfig_When_Length_Zero(t *testing.T) {
	t.Parallel()

	_, err := corrupt.NewRange(4, 0)
	if !errors.Is(err, corrupt.ErrConfig) {
		t.Fatalf("err=%v, want ErrConfig", err)
	}

	if got, want := corrupt.WholeRange(3), (corrupt.Range{From: 0, Len: 24}); got != want {
		t.Fatalf("WholeRange(3)=%+v, want=%+v", got, want)
	}
}
