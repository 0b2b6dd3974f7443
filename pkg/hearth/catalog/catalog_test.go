package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/hearth/pkg/hearth/fact"
	"github.com/cognicore/hearth/pkg/hearth/internalerr"
)

var rooms = []string{"living_room", "bedroom", "kitchen", "bathroom", "childrens_room"}

func lightTypes() []EntityType {
	return []EntityType{
		{Name: "room", Members: rooms},
		{Name: "status", Members: []string{"on", "off"}},
	}
}

func lightSchemas() []Schema {
	roomParam := []Param{{Name: "room", Type: "room"}}
	status := func(v string) []Template {
		return []Template{{Predicate: "light_status", Args: []string{"?room", v}}}
	}
	return []Schema{
		{Name: "turn_on", Params: roomParam, Pre: status("off"), Add: status("on"), Del: status("off")},
		{Name: "turn_off", Params: roomParam, Pre: status("on"), Add: status("off"), Del: status("on")},
	}
}

func newLightCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(lightTypes(), lightSchemas())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestGroundingOrder(t *testing.T) {
	c := newLightCatalog(t)

	actions := c.Actions()
	if len(actions) != 10 {
		t.Fatalf("expected 10 ground actions, got %d", len(actions))
	}

	want := []string{
		"turn_on(living_room)", "turn_on(bedroom)", "turn_on(kitchen)", "turn_on(bathroom)", "turn_on(childrens_room)",
		"turn_off(living_room)", "turn_off(bedroom)", "turn_off(kitchen)", "turn_off(bathroom)", "turn_off(childrens_room)",
	}
	for i, a := range actions {
		if a.String() != want[i] {
			t.Errorf("action %d = %s, want %s", i, a, want[i])
		}
	}
}

func TestGroundedEffects(t *testing.T) {
	c := newLightCatalog(t)

	a, ok := c.Lookup("turn_on", "kitchen")
	if !ok {
		t.Fatal("turn_on(kitchen) should exist")
	}
	if !a.Pre().Has(fact.New("light_status", "kitchen", "off")) {
		t.Errorf("unexpected preconditions: %s", a.Pre())
	}
	if !a.Add().Has(fact.New("light_status", "kitchen", "on")) {
		t.Errorf("unexpected add effects: %s", a.Add())
	}
	if !a.Del().Has(fact.New("light_status", "kitchen", "off")) {
		t.Errorf("unexpected delete effects: %s", a.Del())
	}
	if a.Name() != "turn_on" || a.Arg(0) != "kitchen" {
		t.Errorf("unexpected name/args: %s %v", a.Name(), a.Args())
	}
}

func TestLookupUnknown(t *testing.T) {
	c := newLightCatalog(t)
	if _, ok := c.Lookup("turn_on", "garage"); ok {
		t.Error("turn_on(garage) should not exist")
	}
	if _, ok := c.Lookup("dim", "kitchen"); ok {
		t.Error("dim(kitchen) should not exist")
	}
}

func TestActionEquality(t *testing.T) {
	c := newLightCatalog(t)
	a, _ := c.Lookup("turn_on", "kitchen")
	b, _ := c.Lookup("turn_on", "kitchen")
	d, _ := c.Lookup("turn_off", "kitchen")

	if !a.Equal(b) {
		t.Error("same name and args should be equal")
	}
	if a.Equal(d) {
		t.Error("different names should not be equal")
	}
}

func TestApplicable(t *testing.T) {
	c := newLightCatalog(t)
	state := fact.NewState(
		fact.New("light_status", "living_room", "on"),
		fact.New("light_status", "kitchen", "off"),
	)

	got := c.Applicable(state)
	if len(got) != 2 {
		t.Fatalf("expected 2 applicable actions, got %v", got)
	}
	if got[0].String() != "turn_on(kitchen)" || got[1].String() != "turn_off(living_room)" {
		t.Errorf("unexpected applicable actions or order: %v", got)
	}
}

func TestApplicableEmptyState(t *testing.T) {
	c := newLightCatalog(t)
	if got := c.Applicable(fact.NewState()); len(got) != 0 {
		t.Errorf("nothing should apply to the empty state, got %v", got)
	}
}

func TestMultiParameterBindings(t *testing.T) {
	types := []EntityType{
		{Name: "room", Members: []string{"a", "b"}},
		{Name: "level", Members: []string{"low", "high"}},
	}
	schemas := []Schema{{
		Name:   "dim",
		Params: []Param{{Name: "r", Type: "room"}, {Name: "l", Type: "level"}},
		Add:    []Template{{Predicate: "brightness", Args: []string{"?r", "?l"}}},
	}}

	c, err := New(types, schemas)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := []string{"dim(a, low)", "dim(a, high)", "dim(b, low)", "dim(b, high)"}
	got := c.Actions()
	if len(got) != len(want) {
		t.Fatalf("expected %d actions, got %v", len(want), got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("action %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCatalogIsReadOnly(t *testing.T) {
	c := newLightCatalog(t)

	actions := c.Actions()
	actions[0] = Action{}
	if c.Actions()[0].String() != "turn_on(living_room)" {
		t.Error("mutating Actions() result changed the catalog")
	}

	members := c.Members("room")
	members[0] = "garage"
	if c.Members("room")[0] != "living_room" {
		t.Error("mutating Members() result changed the catalog")
	}

	schemas := c.Schemas()
	schemas[0].Pre[0].Args[1] = "on"
	if c.Schemas()[0].Pre[0].Args[1] != "off" {
		t.Error("mutating Schemas() result changed the catalog")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		types   []EntityType
		schemas []Schema
		errText string
	}{
		{
			name:    "undeclared entity literal",
			types:   lightTypes(),
			schemas: []Schema{{Name: "x", Pre: []Template{{Predicate: "light_status", Args: []string{"garage", "off"}}}}},
			errText: `undeclared entity "garage"`,
		},
		{
			name:    "undeclared parameter",
			types:   lightTypes(),
			schemas: []Schema{{Name: "x", Add: []Template{{Predicate: "p", Args: []string{"?room"}}}}},
			errText: `undeclared parameter "?room"`,
		},
		{
			name:    "undeclared parameter type",
			types:   lightTypes(),
			schemas: []Schema{{Name: "x", Params: []Param{{Name: "d", Type: "door"}}}},
			errText: `undeclared type "door"`,
		},
		{
			name:    "duplicate schema",
			types:   lightTypes(),
			schemas: append(lightSchemas(), lightSchemas()[0]),
			errText: `duplicate action schema "turn_on"`,
		},
		{
			name:    "duplicate parameter",
			types:   lightTypes(),
			schemas: []Schema{{Name: "x", Params: []Param{{Name: "r", Type: "room"}, {Name: "r", Type: "room"}}}},
			errText: `duplicate parameter "r"`,
		},
		{
			name:    "empty schema name",
			types:   lightTypes(),
			schemas: []Schema{{}},
			errText: "empty name",
		},
		{
			name:    "duplicate type",
			types:   append(lightTypes(), EntityType{Name: "room"}),
			errText: `duplicate entity type "room"`,
		},
		{
			name:    "duplicate member",
			types:   []EntityType{{Name: "room", Members: []string{"a", "a"}}},
			errText: `duplicate member "a"`,
		},
		{
			name:    "member with separator",
			types:   []EntityType{{Name: "room", Members: []string{"living_room, kitchen"}}},
			errText: `invalid member "living_room, kitchen"`,
		},
		{
			name:    "member with whitespace",
			types:   []EntityType{{Name: "room", Members: []string{"living room"}}},
			errText: `invalid member "living room"`,
		},
		{
			name:    "schema name with parentheses",
			types:   lightTypes(),
			schemas: []Schema{{Name: "turn_on(x)"}},
			errText: `invalid action schema name "turn_on(x)"`,
		},
		{
			name:    "empty predicate",
			types:   lightTypes(),
			schemas: []Schema{{Name: "x", Del: []Template{{Args: []string{"on"}}}}},
			errText: "empty predicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.types, tt.schemas)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig: %v", err)
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q should contain %q", err, tt.errText)
			}
		})
	}
}
