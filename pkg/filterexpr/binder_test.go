package filterexpr

import (
	"strings"
	"testing"
	"time"
)

type listRequest struct {
	filter  string
	orderBy string
}

func (r listRequest) GetFilter() string  { return r.filter }
func (r listRequest) GetOrderBy() string { return r.orderBy }

type eventQueryParams struct {
	Concept       string
	Concepts      []string
	Device        string
	RecordedAfter time.Time
	MinSuccess    float64

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

func testSchema() ResourceSchema {
	return ResourceSchema{
		Filter: map[string]FilterField{
			"concept": {
				Kind: KindString,
				Ops:  map[Op]string{OpEQ: "Concept", OpIN: "Concepts"},
			},
			"device": {
				Kind: KindString,
				Ops:  map[Op]string{OpEQ: "Device"},
			},
			"recorded_at": {
				Kind: KindTimestamp,
				Ops:  map[Op]string{OpGTE: "RecordedAfter"},
			},
			"success_rate": {
				Kind: KindNumber,
				Ops:  map[Op]string{OpGTE: "MinSuccess"},
			},
		},
		Order: OrderSchema{
			DefaultPrimary:     "recorded_at",
			DefaultPrimaryDesc: true,
			FallbackKey:        "id",
			Fields: map[string]string{
				"recorded_at": "recorded_at",
				"concept":     "concept",
				"id":          "id",
			},
		},
	}
}

func TestBindFilterConjunction(t *testing.T) {
	req := listRequest{filter: `concept == "algebra" && success_rate >= 0.5 && recorded_at >= timestamp("2025-03-01T00:00:00Z")`}
	var params eventQueryParams

	if err := Bind(req, &params, testSchema()); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.Concept != "algebra" {
		t.Errorf("expected concept 'algebra', got %q", params.Concept)
	}
	if params.MinSuccess != 0.5 {
		t.Errorf("expected min success 0.5, got %v", params.MinSuccess)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !params.RecordedAfter.Equal(want) {
		t.Errorf("expected recorded after %v, got %v", want, params.RecordedAfter)
	}
}

func TestBindFilterInList(t *testing.T) {
	req := listRequest{filter: `concept in ["algebra", "calculus"]`}
	var params eventQueryParams

	if err := Bind(req, &params, testSchema()); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if len(params.Concepts) != 2 || params.Concepts[0] != "algebra" {
		t.Errorf("expected both concepts bound, got %v", params.Concepts)
	}
}

func TestBindFilterRejectsDisallowed(t *testing.T) {
	cases := []struct {
		name   string
		filter string
		want   string
	}{
		{"unknown field", `mood == "happy"`, "not allowed"},
		{"disallowed op", `device >= "mobile"`, "not allowed for field"},
		{"or operator", `concept == "a" || concept == "b"`, "only AND is allowed"},
		{"wrong literal", `success_rate >= "high"`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var params eventQueryParams
			err := Bind(listRequest{filter: tc.filter}, &params, testSchema())
			if err == nil {
				t.Fatalf("expected error for %q", tc.filter)
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBindOrderDefaultsAndOverrides(t *testing.T) {
	var params eventQueryParams
	if err := Bind(listRequest{}, &params, testSchema()); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.PrimaryKey != "recorded_at" || !params.PrimaryDesc {
		t.Errorf("expected default order recorded_at desc, got %s desc=%v", params.PrimaryKey, params.PrimaryDesc)
	}
	if params.SecondaryKey != "id" {
		t.Errorf("expected fallback id, got %q", params.SecondaryKey)
	}

	params = eventQueryParams{}
	if err := Bind(listRequest{orderBy: "concept asc, recorded_at desc"}, &params, testSchema()); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if params.PrimaryKey != "concept" || params.PrimaryDesc {
		t.Errorf("expected concept asc, got %s desc=%v", params.PrimaryKey, params.PrimaryDesc)
	}
	if params.SecondaryKey != "recorded_at" || !params.SecondaryDesc {
		t.Errorf("expected recorded_at desc tiebreaker, got %s desc=%v", params.SecondaryKey, params.SecondaryDesc)
	}
}

func TestBindOrderRejectsUnknownKey(t *testing.T) {
	var params eventQueryParams
	if err := Bind(listRequest{orderBy: "mood"}, &params, testSchema()); err == nil {
		t.Fatal("expected error for unknown order key")
	}
}
