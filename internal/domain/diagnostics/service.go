package diagnostics

import (
	"context"
	"fmt"
)

type Service struct {
	labTests LabTestRepository
	scans    ScanRepository
}

func NewService(labTests LabTestRepository, scans ScanRepository) *Service {
	return &Service{labTests: labTests, scans: scans}
}

func (s *Service) CreateLabTest(ctx context.Context, lt *LabTest) error {
	if lt.Name == "" {
		return fmt.Errorf("name is required")
	}
	if lt.Category == "" {
		return fmt.Errorf("category is required")
	}
	if lt.Price < 0 || lt.MRP < 0 {
		return fmt.Errorf("price and mrp must not be negative")
	}
	return s.labTests.Create(ctx, lt)
}

func (s *Service) GetLabTest(ctx context.Context, id string) (*LabTest, error) {
	return s.labTests.GetByID(ctx, id)
}

func (s *Service) UpdateLabTest(ctx context.Context, id string, patch map[string]interface{}) (*LabTest, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	delete(patch, "id")
	return s.labTests.Update(ctx, id, patch)
}

func (s *Service) ListLabTests(ctx context.Context, f LabTestFilter, limit, offset int) ([]*LabTest, error) {
	return s.labTests.List(ctx, f, limit, offset)
}

func (s *Service) CreateScan(ctx context.Context, sc *Scan) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Modality == "" {
		return fmt.Errorf("modality is required")
	}
	if sc.Price < 0 || sc.MRP < 0 {
		return fmt.Errorf("price and mrp must not be negative")
	}
	return s.scans.Create(ctx, sc)
}

func (s *Service) GetScan(ctx context.Context, id string) (*Scan, error) {
	return s.scans.GetByID(ctx, id)
}

func (s *Service) UpdateScan(ctx context.Context, id string, patch map[string]interface{}) (*Scan, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	delete(patch, "id")
	return s.scans.Update(ctx, id, patch)
}

func (s *Service) ListScans(ctx context.Context, f ScanFilter, limit, offset int) ([]*Scan, error) {
	return s.scans.List(ctx, f, limit, offset)
}
