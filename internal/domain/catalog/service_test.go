package catalog

import (
	"context"
	"testing"

	"github.com/onemedi/onemedi/internal/platform/query"
)

func newTestService() (*Service, *query.MemorySource) {
	ds := query.NewMemorySource()
	return NewService(NewMedicineRepo(ds), NewVendorRepo(ds)), ds
}

func TestCreateMedicineValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		m    Medicine
	}{
		{"missing name", Medicine{Category: "fever"}},
		{"missing category", Medicine{Name: "Paracetamol"}},
		{"negative price", Medicine{Name: "X", Category: "fever", Price: -1}},
		{"price above mrp", Medicine{Name: "X", Category: "fever", Price: 20, MRP: 10}},
	}
	for _, tc := range cases {
		m := tc.m
		if err := svc.CreateMedicine(ctx, &m); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestCreateAndGetMedicine(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m := &Medicine{Name: "Paracetamol 500", Category: "fever", Price: 20, MRP: 25, InStock: true}
	if err := svc.CreateMedicine(ctx, m); err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := svc.GetMedicine(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMedicine: %v", err)
	}
	if got.Name != "Paracetamol 500" || got.Price != 20 {
		t.Fatalf("unexpected medicine: %+v", got)
	}
}

func TestListMedicinesFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seed := []Medicine{
		{Name: "Paracetamol", Category: "fever", Price: 20, MRP: 25, InStock: true},
		{Name: "Cetirizine", Category: "allergy", Price: 15, MRP: 15, InStock: true},
		{Name: "Azithromycin", Category: "antibiotic", Price: 80, MRP: 95, PrescriptionRequired: true},
	}
	for i := range seed {
		if err := svc.CreateMedicine(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateMedicine: %v", err)
		}
	}

	got, err := svc.ListMedicines(ctx, MedicineFilter{Category: "fever"}, 0, 0)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Paracetamol" {
		t.Fatalf("unexpected category filter result: %+v", got)
	}

	rx := true
	got, err = svc.ListMedicines(ctx, MedicineFilter{PrescriptionRequired: &rx}, 0, 0)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Azithromycin" {
		t.Fatalf("unexpected prescription filter result: %+v", got)
	}

	got, err = svc.ListMedicines(ctx, MedicineFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all 3 medicines, got %d", len(got))
	}
	// Default order is name ascending.
	if got[0].Name != "Azithromycin" || got[2].Name != "Paracetamol" {
		t.Fatalf("unexpected order: %v, %v, %v", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestListMedicinesNamePrefix(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seed := []Medicine{
		{Name: "Paracetamol", Category: "fever", Price: 20, MRP: 25},
		{Name: "Pantoprazole", Category: "acidity", Price: 30, MRP: 35},
		{Name: "Cetirizine", Category: "allergy", Price: 15, MRP: 15},
	}
	for i := range seed {
		if err := svc.CreateMedicine(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateMedicine: %v", err)
		}
	}

	got, err := svc.ListMedicines(ctx, MedicineFilter{NamePrefix: "pa"}, 0, 0)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 prefix matches, got %+v", got)
	}

	got, err = svc.ListMedicines(ctx, MedicineFilter{NamePrefix: "parace"}, 0, 0)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Paracetamol" {
		t.Fatalf("unexpected prefix result: %+v", got)
	}
}

func TestSetStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m := &Medicine{Name: "Paracetamol", Category: "fever", Price: 20, MRP: 25, InStock: true}
	if err := svc.CreateMedicine(ctx, m); err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	got, err := svc.SetStock(ctx, m.ID, false)
	if err != nil {
		t.Fatalf("SetStock: %v", err)
	}
	if got.InStock {
		t.Fatal("expected in_stock false")
	}
}

func TestUpdateMedicineStripsID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m := &Medicine{Name: "Paracetamol", Category: "fever", Price: 20, MRP: 25}
	if err := svc.CreateMedicine(ctx, m); err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	got, err := svc.UpdateMedicine(ctx, m.ID, map[string]interface{}{"id": "hijack", "price": 18.0})
	if err != nil {
		t.Fatalf("UpdateMedicine: %v", err)
	}
	if got.ID != m.ID {
		t.Fatalf("id must not change, got %s", got.ID)
	}
	if got.Price != 18 {
		t.Fatalf("expected price 18, got %v", got.Price)
	}

	if _, err := svc.UpdateMedicine(ctx, m.ID, map[string]interface{}{}); err == nil {
		t.Fatal("expected error for empty patch")
	}
}

func TestVendorLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateVendor(ctx, &Vendor{}); err == nil {
		t.Fatal("expected error for missing name")
	}

	v := &Vendor{Name: "City Pharmacy", City: "Hyderabad"}
	if err := svc.CreateVendor(ctx, v); err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	if !v.Active {
		t.Fatal("new vendors start active")
	}

	got, err := svc.ListVendors(ctx, VendorFilter{City: "Hyderabad"}, 0, 0)
	if err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	if len(got) != 1 || got[0].Name != "City Pharmacy" {
		t.Fatalf("unexpected vendors: %+v", got)
	}

	got, err = svc.ListVendors(ctx, VendorFilter{City: "Mumbai"}, 0, 0)
	if err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for other city, got %+v", got)
	}
}
