package labels

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"proptrack/models"
)

// RenderCSV writes one row per numbered label, mirroring the text on
// the printed sheet.
func RenderCSV(lb models.LabelBatch, startNumber int64) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"cultivar", "client_name", "order_date", "initiation_date", "stages", "num_explants", "pathogen_status", "uuid"}); err != nil {
		return nil, err
	}
	explants := ""
	if lb.NumExplants != nil {
		explants = fmt.Sprintf("%d", *lb.NumExplants)
	}
	pathogens := ""
	if lb.PathogenStatus != nil {
		pathogens = *lb.PathogenStatus
	}
	for i := int64(0); i < lb.NumLabels; i++ {
		numbered := fmt.Sprintf("%s - %d", lb.Cultivar, startNumber+i)
		if err := w.Write([]string{numbered, lb.ClientName, lb.OrderDate, lb.InitiationDate, lb.Stages, explants, pathogens, lb.Token}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
