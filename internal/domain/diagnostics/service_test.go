package diagnostics

import (
	"context"
	"testing"

	"github.com/onemedi/onemedi/internal/platform/query"
)

func newTestService() *Service {
	ds := query.NewMemorySource()
	return NewService(NewLabTestRepo(ds), NewScanRepo(ds))
}

func TestCreateLabTestValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.CreateLabTest(ctx, &LabTest{Category: "blood"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.CreateLabTest(ctx, &LabTest{Name: "CBC"}); err == nil {
		t.Error("expected error for missing category")
	}
	if err := svc.CreateLabTest(ctx, &LabTest{Name: "CBC", Category: "blood", Price: -5}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestLabTestFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	seed := []LabTest{
		{Name: "Complete Blood Count", Category: "blood", Price: 300, MRP: 400, HomeCollection: true, City: "Hyderabad"},
		{Name: "Lipid Profile", Category: "blood", Price: 500, MRP: 600, City: "Hyderabad"},
		{Name: "Urine Routine", Category: "urine", Price: 150, MRP: 200, HomeCollection: true, City: "Mumbai"},
	}
	for i := range seed {
		if err := svc.CreateLabTest(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateLabTest: %v", err)
		}
	}

	home := true
	got, err := svc.ListLabTests(ctx, LabTestFilter{HomeCollection: &home}, 0, 0)
	if err != nil {
		t.Fatalf("ListLabTests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 home-collection tests, got %d", len(got))
	}

	got, err = svc.ListLabTests(ctx, LabTestFilter{Category: "blood", City: "Hyderabad"}, 0, 0)
	if err != nil {
		t.Fatalf("ListLabTests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 blood tests in Hyderabad, got %d", len(got))
	}

	got, err = svc.ListLabTests(ctx, LabTestFilter{NamePrefix: "lipid"}, 0, 0)
	if err != nil {
		t.Fatalf("ListLabTests: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Lipid Profile" {
		t.Fatalf("unexpected prefix result: %+v", got)
	}
}

func TestScanFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.CreateScan(ctx, &Scan{Name: "Chest X-Ray"}); err == nil {
		t.Fatal("expected error for missing modality")
	}

	seed := []Scan{
		{Name: "Chest X-Ray", Modality: "xray", BodyPart: "chest", Price: 500, MRP: 700, City: "Hyderabad"},
		{Name: "Brain MRI", Modality: "mri", BodyPart: "head", Price: 4000, MRP: 5000, City: "Hyderabad"},
	}
	for i := range seed {
		if err := svc.CreateScan(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateScan: %v", err)
		}
	}

	got, err := svc.ListScans(ctx, ScanFilter{Modality: "mri"}, 0, 0)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Brain MRI" {
		t.Fatalf("unexpected modality result: %+v", got)
	}

	got, err = svc.ListScans(ctx, ScanFilter{City: "Chennai"}, 0, 0)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice for other city, got %+v", got)
	}
}

func TestUpdateLabTest(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	lt := &LabTest{Name: "CBC", Category: "blood", Price: 300, MRP: 400}
	if err := svc.CreateLabTest(ctx, lt); err != nil {
		t.Fatalf("CreateLabTest: %v", err)
	}

	got, err := svc.UpdateLabTest(ctx, lt.ID, map[string]interface{}{"price": 250.0})
	if err != nil {
		t.Fatalf("UpdateLabTest: %v", err)
	}
	if got.Price != 250 {
		t.Fatalf("expected price 250, got %v", got.Price)
	}
}
