package labels

import (
	"encoding/json"

	"proptrack/models"
)

// Payload is the JSON document embedded in a label's QR code. 1D
// barcodes carry only the token; scanners resolve the rest through
// LoadByToken.
type Payload struct {
	Token          string  `json:"uuid"`
	Client         string  `json:"client"`
	Cultivar       string  `json:"cultivar"`
	OrderDate      string  `json:"order_date"`
	InitiationDate string  `json:"init_date"`
	Stages         string  `json:"stages"`
	Pathogens      *string `json:"pathogens"`
	NumExplants    *int64  `json:"num_explants"`
}

func PayloadFromBatch(lb models.LabelBatch) Payload {
	return Payload{
		Token:          lb.Token,
		Client:         lb.ClientName,
		Cultivar:       lb.Cultivar,
		OrderDate:      lb.OrderDate,
		InitiationDate: lb.InitiationDate,
		Stages:         lb.Stages,
		Pathogens:      lb.PathogenStatus,
		NumExplants:    lb.NumExplants,
	}
}

func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodePayload parses a scanned QR document.
func DecodePayload(raw string) (Payload, error) {
	var p Payload
	err := json.Unmarshal([]byte(raw), &p)
	return p, err
}
