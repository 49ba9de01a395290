package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
)

// Generator renders the summary charts sent alongside the resumo
// reply.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// ExpensePie renders a pie of expenses by category as PNG. It returns
// nil bytes (and no error) when there is nothing to draw.
func (g *Generator) ExpensePie(byCategory map[string]decimal.Decimal) ([]byte, error) {
	titles := make([]string, 0, len(byCategory))
	for title, amount := range byCategory {
		if amount.IsPositive() {
			titles = append(titles, title)
		}
	}
	if len(titles) == 0 {
		return nil, nil
	}
	sort.Strings(titles)

	values := make([]chart.Value, 0, len(titles))
	for _, title := range titles {
		amount := byCategory[title]
		values = append(values, chart.Value{
			Value: amount.InexactFloat64(),
			Label: fmt.Sprintf("%s (R$ %s)", title, amount.StringFixed(2)),
		})
	}

	pie := chart.PieChart{
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render expense chart: %w", err)
	}
	return buf.Bytes(), nil
}
