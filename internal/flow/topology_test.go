package flow

import (
	"errors"
	"testing"
)

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"bichuv", RoleBichuv},
		{"BICHUV", RoleBichuv},
		{"  Tasnif ", RoleTasnif},
		{"autsorspechat", RolePechat},
		{"AutsorsTikuv", RoleTikuv},
		{"pechat_usluga", RolePechatUsluga},
		{"ombor", RoleOmbor},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if err != nil {
			t.Errorf("Normalize(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeUnknown(t *testing.T) {
	_, err := Normalize("bolalar")
	if !errors.Is(err, ErrUnknownDepartmentRole) {
		t.Fatalf("Normalize(unknown) error = %v, want ErrUnknownDepartmentRole", err)
	}
}

func TestNextFanOutAndConvergence(t *testing.T) {
	next, err := Next("tasnif")
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 2 || next[0] != RolePechat || next[1] != RolePechatUsluga {
		t.Fatalf("Next(tasnif) = %v, want [pechat pechat_usluga]", next)
	}

	// Both printing variants converge on embroidery.
	for _, from := range []string{"pechat", "pechat_usluga"} {
		next, err = Next(from)
		if err != nil {
			t.Fatal(err)
		}
		if len(next) != 2 || next[0] != RoleVishivka {
			t.Fatalf("Next(%s) = %v, want embroidery variants", from, next)
		}
	}
}

func TestNextTerminal(t *testing.T) {
	next, err := Next("ombor")
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 0 {
		t.Fatalf("Next(ombor) = %v, want empty", next)
	}

	terminal, err := IsTerminal("OMBOR")
	if err != nil || !terminal {
		t.Fatalf("IsTerminal(OMBOR) = %v, %v, want true", terminal, err)
	}
	terminal, err = IsTerminal("upakovka")
	if err != nil || terminal {
		t.Fatalf("IsTerminal(upakovka) = %v, %v, want false", terminal, err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{"bichuv", "tasnif", true},
		{"tasnif", "pechat", true},
		{"tasnif", "pechat_usluga", true},
		{"tasnif", "tikuv", false},
		{"upakovka", "ombor", true},
		{"ombor", "bichuv", false},
		// Outsourced alias normalizes before the check.
		{"autsorspechat", "vishivka", true},
	}
	for _, tt := range tests {
		got, err := CanTransition(tt.from, tt.to)
		if err != nil {
			t.Errorf("CanTransition(%q, %q) error: %v", tt.from, tt.to, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransitionUnknownTarget(t *testing.T) {
	_, err := CanTransition("bichuv", "nimadir")
	if !errors.Is(err, ErrUnknownDepartmentRole) {
		t.Fatalf("error = %v, want ErrUnknownDepartmentRole", err)
	}
}

func TestFullChainReachesWarehouse(t *testing.T) {
	// Follow the in-house path from cutting; it must end at ombor.
	current := "bichuv"
	for i := 0; i < 20; i++ {
		steps, err := Next(current)
		if err != nil {
			t.Fatal(err)
		}
		if len(steps) == 0 {
			if current != "ombor" {
				t.Fatalf("chain terminated at %q, want ombor", current)
			}
			return
		}
		current = string(steps[0])
	}
	t.Fatal("chain did not terminate within 20 steps")
}
