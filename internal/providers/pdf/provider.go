package pdf

import (
	"context"
	"io"
)

type Provider interface {
	GenerateSubmissionReport(ctx context.Context, data ReportData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateSubmissionReport(ctx context.Context, data ReportData) (io.Reader, error) {
	return nil, nil
}
