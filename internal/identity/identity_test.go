package identity

import (
	"testing"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"products.csv", "products"},
		{"daily-report.csv", "daily_report"},
		{"export.v2.csv", "export_v2"},
		{"Order Items.csv", "Order_Items"},
		{"data_2024.csv", "data_2024"},
		{"UPPER.CSV", "UPPER"},
		{"weird~!@#.csv", "weird____"},
		{"dir/nested.csv", "nested"},
		{"noext", "noext"},
		{"über.csv", "_ber"},
		{".csv", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := TableName(tt.filename); got != tt.want {
				t.Errorf("TableName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestSourceID_Deterministic(t *testing.T) {
	id1 := SourceID("data/products.csv")
	id2 := SourceID("data/products.csv")

	if id1 != id2 {
		t.Errorf("SourceID not deterministic: %s != %s", id1, id2)
	}
}

func TestSourceID_NormalizesPath(t *testing.T) {
	base := SourceID("data/products.csv")

	variants := []string{
		"./data/products.csv",
		"DATA/Products.CSV",
		"data\\products.csv",
	}
	for _, v := range variants {
		if got := SourceID(v); got != base {
			t.Errorf("SourceID(%q) = %s, want %s", v, got, base)
		}
	}
}

func TestSourceID_DistinctPaths(t *testing.T) {
	if SourceID("a.csv") == SourceID("b.csv") {
		t.Error("SourceID should differ for distinct paths")
	}
	if SourceID("x/a.csv") == SourceID("y/a.csv") {
		t.Error("SourceID should include the directory in the identity")
	}
}
