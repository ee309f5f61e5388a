package diagnostics

import "context"

type LabTestRepository interface {
	Create(ctx context.Context, lt *LabTest) error
	GetByID(ctx context.Context, id string) (*LabTest, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*LabTest, error)
	List(ctx context.Context, f LabTestFilter, limit, offset int) ([]*LabTest, error)
}

type ScanRepository interface {
	Create(ctx context.Context, sc *Scan) error
	GetByID(ctx context.Context, id string) (*Scan, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*Scan, error)
	List(ctx context.Context, f ScanFilter, limit, offset int) ([]*Scan, error)
}
