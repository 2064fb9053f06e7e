package models

import (
	"reflect"
	"testing"
)

func TestProductInputMissing(t *testing.T) {
	full := ProductInput{Title: "Honey", Description: "raw", ImgSrc: "/h.jpg", Price: 10}
	if got := full.Missing(); len(got) != 0 {
		t.Fatalf("expected no missing fields, got %v", got)
	}

	got := ProductInput{Title: "B"}.Missing()
	want := []string{"description", "imgSrc", "price"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("missing = %v, want %v", got, want)
	}

	if (ProductInput{Title: " ", Description: "d", ImgSrc: "i", Price: -1}).Valid() {
		t.Fatalf("blank title and negative price must be invalid")
	}
}

func TestProductPatchApply(t *testing.T) {
	price := 42.5
	p := Product{ID: "1", Title: "t", Description: "d", ImgSrc: "i", Price: 10}
	out := ProductPatch{Price: &price}.Apply(p)
	if out.Price != 42.5 || out.Title != "t" || out.Description != "d" || out.ImgSrc != "i" || out.ID != "1" {
		t.Fatalf("unexpected merge result: %+v", out)
	}

	if !(ProductPatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}

	blank := ""
	zero := 0.0
	bad := ProductPatch{Title: &blank, Price: &zero}.Invalid()
	if !reflect.DeepEqual(bad, []string{"title", "price"}) {
		t.Fatalf("invalid = %v", bad)
	}
}
