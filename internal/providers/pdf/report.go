package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type ReportData struct {
	OrgName       string
	TemplateTitle string
	Trade         string
	SiteAddress   string
	SubmitterName string
	Status        string
	SubmittedAt   string

	Answers map[string]interface{}
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateSubmissionReport(ctx context.Context, data ReportData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.TemplateTitle, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, data.OrgName, props.Text{
			Size:  12,
			Align: align.Left,
		}),
	)

	m.AddRow(28,
		col.New(6).Add(
			text.New("Site: "+data.SiteAddress, props.Text{Top: 0}),
			text.New("Trade: "+data.Trade, props.Text{Top: 5}),
			text.New("Completed by: "+data.SubmitterName, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Status: "+data.Status, props.Text{Top: 0}),
			text.New("Submitted: "+data.SubmittedAt, props.Text{Top: 5}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Responses", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
		}),
	)

	// Map iteration order is random; sort for a stable document.
	keys := make([]string, 0, len(data.Answers))
	for k := range data.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m.AddRow(8,
			text.NewCol(6, k, props.Text{Style: fontstyle.Bold}),
			text.NewCol(6, fmt.Sprintf("%v", data.Answers[k])),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate submission report: %w", err)
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
