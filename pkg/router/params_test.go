package router

import (
	"testing"

	"github.com/mlb-trending/trending/internal/errors"
)

func TestDecodeProps(t *testing.T) {
	type input struct {
		PlayerID string  `param:"player_id"`
		Days     int     `param:"days"`
		Season   uint16  `param:"season"`
		Min      float64 `param:"min"`
		Active   bool    `param:"active"`
		Ignored  string
		hidden   string `param:"hidden"`
	}

	var in input
	err := DecodeProps(Params{
		"player_id": "mike-trout",
		"days":      "7",
		"season":    "2025",
		"min":       "0.300",
		"active":    "true",
		"hidden":    "x",
		"extra":     "y",
	}, &in)
	if err != nil {
		t.Fatalf("DecodeProps: %v", err)
	}

	if in.PlayerID != "mike-trout" {
		t.Errorf("PlayerID = %q", in.PlayerID)
	}
	if in.Days != 7 {
		t.Errorf("Days = %d", in.Days)
	}
	if in.Season != 2025 {
		t.Errorf("Season = %d", in.Season)
	}
	if in.Min != 0.3 {
		t.Errorf("Min = %v", in.Min)
	}
	if !in.Active {
		t.Error("Active = false")
	}
	if in.hidden != "" {
		t.Error("unexported fields must not be set")
	}
}

func TestDecodePropsErrors(t *testing.T) {
	type numeric struct {
		ID int `param:"player_id"`
	}
	var n numeric
	err := DecodeProps(Params{"player_id": "mike-trout"}, &n)
	if !errors.HasCode(err, errors.CodeInvalidParam) {
		t.Errorf("err = %v, want %s", err, errors.CodeInvalidParam)
	}

	type small struct {
		V int8 `param:"v"`
	}
	var s small
	if err := DecodeProps(Params{"v": "300"}, &s); err == nil {
		t.Error("expected overflow error for int8")
	}

	type unsupported struct {
		V []string `param:"v"`
	}
	var u unsupported
	if err := DecodeProps(Params{"v": "a"}, &u); err == nil {
		t.Error("expected error for unsupported kind")
	}

	if err := DecodeProps(Params{}, n); err == nil {
		t.Error("expected error for non-pointer target")
	}
	var nilPtr *numeric
	if err := DecodeProps(Params{}, nilPtr); err == nil {
		t.Error("expected error for nil pointer")
	}
	str := "x"
	if err := DecodeProps(Params{}, &str); err == nil {
		t.Error("expected error for pointer to non-struct")
	}
}

func TestPropsAs(t *testing.T) {
	type profile struct {
		PlayerID string `param:"player_id"`
	}

	table := testTable(t)
	m, _ := table.Match("/player/42")

	p, err := PropsAs[profile](m)
	if err != nil {
		t.Fatal(err)
	}
	if p.PlayerID != "42" {
		t.Errorf("PlayerID = %q, want 42", p.PlayerID)
	}

	if _, err := PropsAs[profile](nil); err == nil {
		t.Error("expected error for nil match")
	}

	// Routes that do not forward params leave the view input zero.
	home, _ := table.Match("/")
	p, err = PropsAs[profile](home)
	if err != nil || p.PlayerID != "" {
		t.Errorf("PropsAs(home) = %+v, %v", p, err)
	}
}
