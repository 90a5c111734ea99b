package directory

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNormalizeSingleManagerID(t *testing.T) {
	emp := Normalize(RawEmployee{ID: " e1 ", Name: "Ana", ManagerID: "m1"})
	if emp.ID != "e1" {
		t.Fatalf("expected trimmed id, got %q", emp.ID)
	}
	if !reflect.DeepEqual(emp.ManagerIDs, []string{"m1"}) {
		t.Fatalf("expected single manager id, got %v", emp.ManagerIDs)
	}
	if emp.Status != StatusActive {
		t.Fatalf("expected default status active, got %q", emp.Status)
	}
}

func TestNormalizeManagerIDsWinOverSingle(t *testing.T) {
	emp := Normalize(RawEmployee{ID: "e1", ManagerID: "m9", ManagerIDs: StringList{"m1", " m2", "m1", "", "e1"}})
	if !reflect.DeepEqual(emp.ManagerIDs, []string{"m1", "m2"}) {
		t.Fatalf("unexpected manager ids: %v", emp.ManagerIDs)
	}
}

func TestNormalizeFoldsManagerEmail(t *testing.T) {
	emp := Normalize(RawEmployee{ID: "e1", ManagerEmail: "  Boss@Example.COM "})
	if emp.ManagerEmail != "boss@example.com" {
		t.Fatalf("expected folded manager email, got %q", emp.ManagerEmail)
	}
	if !emp.HasManager() {
		t.Fatal("manager email alone should count as having a manager")
	}
}

func TestNormalizeJobFamilyAliases(t *testing.T) {
	cases := []struct {
		name string
		raw  RawEmployee
	}{
		{"jobFamilyName", RawEmployee{ID: "a", JobFamilyName: "Sales"}},
		{"jobFamily", RawEmployee{ID: "a", JobFamily: "Sales"}},
		{"job_family_name", RawEmployee{ID: "a", JobFamilyNameSnake: "Sales"}},
		{"family", RawEmployee{ID: "a", Family: " Sales "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw).JobFamilyName; got != "Sales" {
				t.Fatalf("expected Sales, got %q", got)
			}
		})
	}
}

func TestNormalizeAllDropsBlankAndDuplicateIDs(t *testing.T) {
	out := NormalizeAll([]RawEmployee{{ID: "a", Name: "first"}, {ID: ""}, {ID: "a", Name: "second"}, {ID: "b"}})
	if len(out) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(out))
	}
	if out[0].Name != "first" {
		t.Fatalf("expected first record to win, got %q", out[0].Name)
	}
}

func TestRawEmployeeDecodesManagerIDsAsStringOrArray(t *testing.T) {
	var single RawEmployee
	if err := json.Unmarshal([]byte(`{"id":"a","managerIds":"m1"}`), &single); err != nil {
		t.Fatalf("decode single: %v", err)
	}
	if !reflect.DeepEqual([]string(single.ManagerIDs), []string{"m1"}) {
		t.Fatalf("unexpected ids: %v", single.ManagerIDs)
	}

	var many RawEmployee
	if err := json.Unmarshal([]byte(`{"id":"a","managerIds":["m1","m2"],"job_family_name":"Ops"}`), &many); err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if len(many.ManagerIDs) != 2 || many.JobFamilyNameSnake != "Ops" {
		t.Fatalf("unexpected record: %+v", many)
	}
}

func TestRawEmployeeDecodesYAMLScalarManagerIDs(t *testing.T) {
	var raw RawEmployee
	if err := yaml.Unmarshal([]byte("id: a\nmanagerIds: m1\n"), &raw); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if !reflect.DeepEqual([]string(raw.ManagerIDs), []string{"m1"}) {
		t.Fatalf("unexpected ids: %v", raw.ManagerIDs)
	}
}

func TestSameEmail(t *testing.T) {
	if !SameEmail(" A@x.io", "a@X.IO ") {
		t.Fatal("expected emails to match")
	}
	if SameEmail("", "") {
		t.Fatal("empty emails must never match")
	}
}
