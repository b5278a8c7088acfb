package actions

import (
	"errors"
	"testing"

	"holmes/internal/config"
	"holmes/internal/render"
)

type stubHandler struct {
	desc  string
	kinds []Kind
}

func (s stubHandler) Description() string                { return s.desc }
func (s stubHandler) Kinds() []Kind                      { return s.kinds }
func (s stubHandler) Handle(Invocation) ([]Reply, error) { return nil, nil }

func TestParseKind_RoundTrip(t *testing.T) {
	for _, k := range AllKinds() {
		if got := ParseKind(k.ID()); got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.ID(), got, k)
		}
	}
	if got := ParseKind("definitely_not_an_action"); got != KindUnknown {
		t.Errorf("unknown id parsed as %v", got)
	}
	if got := ParseKind(""); got != KindUnknown {
		t.Errorf("empty id parsed as %v", got)
	}
	if KindUnknown.String() != "unknown" || KindUnknown.Known() {
		t.Error("KindUnknown should stringify as unknown and not be known")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	revenue := stubHandler{desc: "revenue", kinds: []Kind{KindSelectRevenue}}
	reg := NewBuilder().Add(revenue).Build()

	h, k, err := reg.Lookup("select_revenue")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if k != KindSelectRevenue || h.Description() != "revenue" {
		t.Errorf("Lookup = (%v, %v)", h.Description(), k)
	}

	if _, _, err := reg.Lookup("nope"); !errors.Is(err, ErrUnrecognizedAction) {
		t.Errorf("unknown id err = %v, want ErrUnrecognizedAction", err)
	}

	_, k, err = reg.Lookup("select_traffic")
	if !errors.Is(err, ErrNoHandler) {
		t.Errorf("unregistered kind err = %v, want ErrNoHandler", err)
	}
	if k != KindSelectTraffic {
		t.Errorf("unregistered kind = %v, want select_traffic", k)
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	first := stubHandler{desc: "first"}
	second := stubHandler{desc: "second"}

	reg := NewBuilder().
		Register([]Kind{KindSelectTraffic, KindAdRequestsDrop}, first).
		Register([]Kind{KindAdRequestsDrop}, second).
		Build()

	list := reg.List()
	if list["select_traffic"] != "first" {
		t.Errorf("select_traffic = %q, want first", list["select_traffic"])
	}
	if list["ad_requests_drop"] != "second" {
		t.Errorf("ad_requests_drop = %q, want second", list["ad_requests_drop"])
	}
}

func TestRegistry_MultiKeyHandlerIsShared(t *testing.T) {
	reg := NewBuilder().Add(stubHandler{desc: "traffic", kinds: []Kind{KindSelectTraffic, KindSharpBidDrop}}).Build()
	a, _, _ := reg.Lookup("select_traffic")
	b, _, _ := reg.Lookup("sharp_bid_drop")
	if a.Description() != b.Description() {
		t.Error("both kinds should resolve to the same handler")
	}
}

func TestRegistry_BuildSnapshotsRegistrations(t *testing.T) {
	b := NewBuilder().Add(stubHandler{desc: "revenue", kinds: []Kind{KindSelectRevenue}})
	reg := b.Build()
	b.Add(stubHandler{desc: "late", kinds: []Kind{KindSelectLatency}})

	if _, _, err := reg.Lookup("select_latency"); !errors.Is(err, ErrNoHandler) {
		t.Error("registrations after Build must not leak into the registry")
	}
}

func TestRegistry_IgnoresUnknownKind(t *testing.T) {
	reg := NewBuilder().Register([]Kind{KindUnknown}, stubHandler{desc: "x"}).Build()
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestDefault_CoversEveryKind(t *testing.T) {
	reg := Default(render.New(nil), config.DefaultDirectory())

	for _, k := range AllKinds() {
		h, got, err := reg.Lookup(k.ID())
		if err != nil {
			t.Errorf("Lookup(%s): %v", k, err)
			continue
		}
		if got != k {
			t.Errorf("Lookup(%s) kind = %v", k, got)
		}
		found := false
		for _, declared := range h.Kinds() {
			if declared == k {
				found = true
			}
		}
		if !found {
			t.Errorf("%s resolved to %q which does not declare it", k, h.Description())
		}
	}
	if len(reg.List()) != len(AllKinds()) {
		t.Errorf("List() has %d entries, want %d", len(reg.List()), len(AllKinds()))
	}
}
