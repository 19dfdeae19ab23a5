package corrupt_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/calvinalkan/korrupt/pkg/corrupt"
)

func Test_ParseMethod_Accepts_Names_And_Aliases(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in   string
		want corrupt.Method
	}{
		{"zeros", corrupt.Zeros},
		{"ones", corrupt.Ones},
		{"flip", corrupt.Flip},
		{"swap", corrupt.Swap},
		{"reverse", corrupt.Reverse},
		{"repeat", corrupt.Repeat},
		{"shorten", corrupt.Shorten},
		{"addnoise", corrupt.AddNoise},
		{"interference", corrupt.Interference},
		{"rrotate", corrupt.RRotate},
		{"lrotate", corrupt.LRotate},
		{"rcycle", corrupt.RRotate},
		{"lcycle", corrupt.LRotate},
		{" FLIP ", corrupt.Flip},
	} {
		got, err := corrupt.ParseMethod(tt.in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", tt.in, err)
		}

		if got != tt.want {
			t.Errorf("ParseMethod(%q)=%v, want=%v", tt.in, got, tt.want)
		}
	}
}

func Test_ParseMethod_Returns_ErrConfig_When_Name_Unknown(t *testing.T) {
	t.Parallel()

	_, err := corrupt.ParseMethod("scramble")
	if !errors.Is(err, corrupt.ErrUnknownMethod) || !errors.Is(err, corrupt.ErrConfig) {
		t.Fatalf("err=%v, want ErrUnknownMethod wrapping ErrConfig", err)
	}
}

func Test_Methods_Lists_Every_Method_Once_With_Description(t *testing.T) {
	t.Parallel()

	methods := corrupt.Methods()
	if got, want := len(methods), 11; got != want {
		t.Fatalf("len(Methods())=%d, want=%d", got, want)
	}

	seen := map[string]bool{}

	for _, m := range methods {
		if seen[m.String()] {
			t.Fatalf("duplicate method %v", m)
		}

		seen[m.String()] = true

		if m.Describe() == "" {
			t.Errorf("%v has no description", m)
		}

		parsed, err := corrupt.ParseMethod(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseMethod(%q)=(%v, %v), want=%v", m.String(), parsed, err, m)
		}
	}

	if got, want := corrupt.RRotate.Aliases(), []string{"rcycle"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("RRotate.Aliases()=%v, want=%v", got, want)
	}
}

func Test_Method_Decodes_From_JSON_String(t *testing.T) {
	t.Parallel()

	var v struct {
		M corrupt.Method `json:"m"`
	}

	err := json.Unmarshal([]byte(`{"m":"lcycle"}`), &v)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got, want := v.M, corrupt.LRotate; got != want {
		t.Fatalf("method=%v, want=%v", got, want)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if got, want := string(out), `{"m":"lrotate"}`; got != want {
		t.Fatalf("json=%s, want=%s", got, want)
	}

	err = json.Unmarshal([]byte(`{"m":"nope"}`), &v)
	if !errors.Is(err, corrupt.ErrUnknownMethod) {
		t.Fatalf("err=%v, want ErrUnknownMethod", err)
	}
}
