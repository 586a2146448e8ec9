package crisis

import (
	"reflect"
	"testing"
)

func TestDetect_EachFamily(t *testing.T) {
	tests := []struct {
		text string
		want Type
	}{
		{"I keep thinking about suicide", TypeSuicidal},
		{"Sometimes I want to KILL MYSELF", TypeSuicidal},
		{"I don't want to be alive anymore", TypeSuicidal},
		{"my uncle tried to assault me", TypeSevereAbuse},
		{"he would hit me when he was drunk", TypeSevereAbuse},
		{"I've been starving myself for days", TypeSevereEating},
		{"I can't eat anything", TypeSevereEating},
		{"I started cutting again", TypeSevereSelfInjury},
		{"I want to burn myself", TypeSevereSelfInjury},
	}
	for _, tt := range tests {
		got := Detect(tt.text)
		if !got.IsCrisis {
			t.Errorf("Detect(%q) returned no crisis, want %s", tt.text, tt.want)
			continue
		}
		if got.Type != tt.want {
			t.Errorf("Detect(%q).Type = %s, want %s", tt.text, got.Type, tt.want)
		}
	}
}

func TestDetect_FirstMatchWins(t *testing.T) {
	got := Detect("after the abuse I thought about suicide")
	if got.Type != TypeSuicidal {
		t.Errorf("expected suicidal to take priority over severe_abuse, got %s", got.Type)
	}

	got = Detect("I binge and then I start cutting")
	if got.Type != TypeSevereEating {
		t.Errorf("expected severe_eating to take priority over severe_self_injury, got %s", got.Type)
	}
}

func TestDetect_NoMatch(t *testing.T) {
	for _, text := range []string{"", "I had a lovely day", "exam stress is real"} {
		got := Detect(text)
		if got.IsCrisis || got.Type != TypeNone {
			t.Errorf("Detect(%q) = %+v, want no crisis", text, got)
		}
	}
}

func TestTypes_Order(t *testing.T) {
	want := []Type{TypeSuicidal, TypeSevereAbuse, TypeSevereEating, TypeSevereSelfInjury}
	if got := Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}
