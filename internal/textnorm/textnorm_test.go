package textnorm

import "testing"

func TestASCII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"São Paulo", "Sao Paulo"},
		{"Município de notificação", "Municipio de notificacao"},
		{"Itapissuma", "Itapissuma"},
		{"Piauí", "Piaui"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ASCII(tt.in); got != tt.want {
			t.Errorf("ASCII(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Rio Grande do Norte"); got != "Rio_Grande_do_Norte" {
		t.Errorf("got %q", got)
	}
	if got := Slug("Espírito Santo"); got != "Espirito_Santo" {
		t.Errorf("got %q", got)
	}
}

func TestKey(t *testing.T) {
	if got := Key("  Cabo de  Santo Agostinho "); got != "CABO DE SANTO AGOSTINHO" {
		t.Errorf("got %q", got)
	}
	if Key("Goiânia") != Key("GOIANIA") {
		t.Error("expected accent- and case-insensitive keys to match")
	}
}
