package types

import "testing"

func TestParseBehavior(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Behavior
		wantErr bool
	}{
		{"近战", "melee", BehaviorMelee, false},
		{"远程", "ranged", BehaviorRanged, false},
		{"自爆", "explosive", BehaviorExplosive, false},
		{"Boss", "boss", BehaviorBoss, false},
		{"空字符串默认近战", "", BehaviorMelee, false},
		{"未知名称", "flying", BehaviorUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBehavior(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBehaviorTextRoundTrip(t *testing.T) {
	var b Behavior
	if err := b.UnmarshalText([]byte("explosive")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, _ := b.MarshalText()
	if string(text) != "explosive" {
		t.Errorf("Expected explosive, got %s", text)
	}
	if BehaviorUnknown.String() != "unknown" {
		t.Errorf("Expected unknown, got %s", BehaviorUnknown.String())
	}
}
